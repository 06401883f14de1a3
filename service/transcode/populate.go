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


package transcode

import (
	"context"
	"fmt"
	"time"

	"github.com/fawa-io/webpedge/pkg/fwlog"
	"github.com/fawa-io/webpedge/pkg/storage"
)

// Populator writes derived objects back to the store.
type Populator struct {
	store   storage.ObjectStore
	ledger  storage.Ledger
	quality int
	now     func() time.Time
}

// NewPopulator returns a Populator. ledger may be nil.
func NewPopulator(store storage.ObjectStore, ledger storage.Ledger, quality int) *Populator {
	return &Populator{store: store, ledger: ledger, quality: quality, now: time.Now}
}

// Populate stores obj at derivedKey. Writes are blind: concurrent misses
// for the same key produce identical bytes, so the last writer wins.
func (p *Populator) Populate(ctx context.Context, derivedKey string, obj *DerivedObject) error {
	if err := p.store.Put(ctx, derivedKey, obj.Data, obj.ContentType, obj.CacheControl); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStoreWrite, derivedKey, err)
	}
	if p.ledger == nil {
		return nil
	}

	record := &storage.TranscodeRecord{
		DerivedKey:   derivedKey,
		OriginalKey:  obj.OriginalKey,
		SourceFormat: obj.SourceFormat,
		OriginalSize: obj.OriginalSize,
		DerivedSize:  int64(len(obj.Data)),
		Quality:      p.quality,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.ledger.SaveRecord(ctx, record); err != nil {
		fwlog.Warnf("Failed to record transcode of %s: %v", derivedKey, err)
	}
	return nil
}
