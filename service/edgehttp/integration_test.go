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


package edgehttp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	_ "golang.org/x/image/webp"
	"github.com/stretchr/testify/require"

	"github.com/fawa-io/webpedge/pkg/edge"
	"github.com/fawa-io/webpedge/pkg/storage"
	"github.com/fawa-io/webpedge/service/transcode"
)

type bucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *bucket) Get(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *bucket) Put(_ context.Context, key string, data []byte, _, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	img.Set(0, 0, color.NRGBA{A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestOriginResponse_EndToEnd(t *testing.T) {
	b := &bucket{objects: map[string][]byte{"site/original/cat.png": pngBytes(t)}}
	h := transcode.NewHandler(transcode.DefaultOptions(), b, nil)
	srv := httptest.NewServer(NewServer(h).Routes())
	defer srv.Close()

	post := func(body string) edge.Response {
		res, err := http.Post(srv.URL+"/v1/edge/origin-response", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
		var got edge.Response
		require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
		return got
	}

	got := post(missEventJSON)
	assert.Equal(t, "200", got.Status)
	assert.Equal(t, "image/webp", got.Headers.Get("content-type"))
	assert.Equal(t, "max-age=7884000", got.Headers.Get("cache-control"))

	data, err := base64.StdEncoding.DecodeString(got.Body)
	require.NoError(t, err)
	_, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "webp", format)
	b.mu.Lock()
	assert.Equal(t, data, b.objects["site/optimized/cat.webp"])
	b.mu.Unlock()

	noHint := strings.Replace(missEventJSON, "original-resource-type", "x-other", -1)
	got = post(noHint)
	assert.Equal(t, "404", got.Status)
	assert.Empty(t, got.Body)
}
