// Copyright 2025 The fawa Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when no object or record exists under a key.
var ErrNotFound = errors.New("storage: not found")

// ObjectStore is the durable store holding original and derived images.
// Implementations must be safe for concurrent use.
type ObjectStore interface {
	// Get opens the object stored at key. It returns ErrNotFound when
	// the key does not exist. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Put writes data at key, replacing any previous object.
	Put(ctx context.Context, key string, data []byte, contentType, cacheControl string) error
}

// TranscodeRecord describes a derived object written by the populator.
type TranscodeRecord struct {
	DerivedKey   string    `json:"derivedKey"`
	OriginalKey  string    `json:"originalKey"`
	SourceFormat string    `json:"sourceFormat"`
	OriginalSize int64     `json:"originalSize"`
	DerivedSize  int64     `json:"derivedSize"`
	Quality      int       `json:"quality"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Ledger keeps transcode records for inspection. It is advisory:
// nothing on the serving path depends on a record being present.
type Ledger interface {
	// SaveRecord stores the record under its derived key.
	SaveRecord(ctx context.Context, record *TranscodeRecord) error

	// GetRecord returns the record for derivedKey or ErrNotFound.
	GetRecord(ctx context.Context, derivedKey string) (*TranscodeRecord, error)
}
