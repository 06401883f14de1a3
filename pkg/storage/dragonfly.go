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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const recordKeyPrefix = "webpedge:record:"

// DragonflyLedger implements the Ledger interface using Dragonfly/Redis.
type DragonflyLedger struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewDragonflyLedger creates a new instance of DragonflyLedger.
// Records expire after ttl, which normally matches the cache horizon
// of the derived objects they describe.
func NewDragonflyLedger(ctx context.Context, addr string, ttl time.Duration) (Ledger, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	// Check the connection.
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping %s: %w", addr, err)
	}
	return &DragonflyLedger{client: client, ttl: ttl}, nil
}

func recordKey(derivedKey string) string {
	return recordKeyPrefix + derivedKey
}

// SaveRecord implements the Ledger interface.
func (d *DragonflyLedger) SaveRecord(ctx context.Context, record *TranscodeRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}
	if record.DerivedKey == "" {
		return errors.New("record has no derived key")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return d.client.Set(ctx, recordKey(record.DerivedKey), data, d.ttl).Err()
}

// GetRecord implements the Ledger interface.
func (d *DragonflyLedger) GetRecord(ctx context.Context, derivedKey string) (*TranscodeRecord, error) {
	val, err := d.client.Get(ctx, recordKey(derivedKey)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var record TranscodeRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", derivedKey, err)
	}
	return &record, nil
}
