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
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/gen2brain/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/fawa-io/webpedge/pkg/storage"
)

var (
	// ErrNotFound means the original object is absent from the store.
	ErrNotFound = storage.ErrNotFound
	// ErrDecode means the original bytes are not a decodable image.
	ErrDecode = errors.New("transcode: decode failed")
	// ErrEncode means the WebP encoder rejected the image.
	ErrEncode = errors.New("transcode: encode failed")
	// ErrStoreWrite means the derived object could not be persisted.
	ErrStoreWrite = errors.New("transcode: store write failed")
)

// Encoder writes img to w in the target format.
type Encoder interface {
	Encode(w io.Writer, img image.Image, quality int) error
}

type webpEncoder struct{}

func (webpEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return webp.Encode(w, img, webp.Options{Quality: quality})
}

// DerivedObject is the encoded rendition plus what is known about its source.
type DerivedObject struct {
	Data         []byte
	ContentType  string
	CacheControl string

	OriginalKey  string
	SourceFormat string
	OriginalSize int64
}

// Engine converts originals fetched from the store into WebP.
type Engine struct {
	store   storage.ObjectStore
	encoder Encoder
	quality int
}

// NewEngine returns an Engine reading from store and encoding at quality.
func NewEngine(store storage.ObjectStore, quality int) *Engine {
	return &Engine{store: store, encoder: webpEncoder{}, quality: quality}
}

// Transcode fetches the object at originalKey and re-encodes it.
// The whole original is buffered because decoders need random access.
func (e *Engine) Transcode(ctx context.Context, originalKey string) (*DerivedObject, error) {
	rc, err := e.store.Get(ctx, originalKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var src bytes.Buffer
	if _, err := src.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("read %s: %w", originalKey, err)
	}

	img, format, err := image.Decode(bytes.NewReader(src.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, originalKey, err)
	}

	var out bytes.Buffer
	if err := e.encoder.Encode(&out, img, e.quality); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncode, originalKey, err)
	}

	return &DerivedObject{
		Data:         out.Bytes(),
		ContentType:  TargetContentType,
		CacheControl: CacheControl,
		OriginalKey:  originalKey,
		SourceFormat: format,
		OriginalSize: int64(src.Len()),
	}, nil
}
