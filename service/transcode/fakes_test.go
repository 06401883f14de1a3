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
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/fawa-io/webpedge/pkg/storage"
)

type storedObject struct {
	data         []byte
	contentType  string
	cacheControl string
}

// memStore is an in-memory ObjectStore.
type memStore struct {
	mu      sync.Mutex
	objects map[string]storedObject
	getErr  error
	putErr  error
	puts    int
}

func newMemStore() *memStore {
	return &memStore{objects: map[string]storedObject{}}
}

func (m *memStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	obj, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *memStore) Put(_ context.Context, key string, data []byte, contentType, cacheControl string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = storedObject{data: append([]byte(nil), data...), contentType: contentType, cacheControl: cacheControl}
	return nil
}

func (m *memStore) object(key string) (storedObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	return obj, ok
}

type memLedger struct {
	mu      sync.Mutex
	records map[string]*storage.TranscodeRecord
	err     error
}

func (l *memLedger) SaveRecord(_ context.Context, r *storage.TranscodeRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	if l.records == nil {
		l.records = map[string]*storage.TranscodeRecord{}
	}
	l.records[r.DerivedKey] = r
	return nil
}

func (l *memLedger) GetRecord(_ context.Context, key string) (*storage.TranscodeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.records[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r, nil
}

type failingEncoder struct{}

func (failingEncoder) Encode(io.Writer, image.Image, int) error {
	return errors.New("encoder exploded")
}

// panicStore panics on every call.
type panicStore struct{}

func (panicStore) Get(context.Context, string) (io.ReadCloser, error) { panic("boom") }

func (panicStore) Put(context.Context, string, []byte, string, string) error { panic("boom") }

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 20), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// expectedWebP encodes src the way the engine does.
func expectedWebP(t *testing.T, src []byte, quality int) []byte {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var out bytes.Buffer
	if err := (webpEncoder{}).Encode(&out, img, quality); err != nil {
		t.Fatalf("encode webp: %v", err)
	}
	return out.Bytes()
}
