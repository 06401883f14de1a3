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
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fawa-io/webpedge/pkg/edge"
)

func notFoundEvent(uri string) edge.Event {
	return edge.Event{
		Request: edge.Request{URI: uri, Headers: edge.Headers{}},
		Response: edge.Response{
			Status:            "404",
			StatusDescription: "Not Found",
			Headers: edge.Headers{
				"content-type":     {{Key: "Content-Type", Value: "application/xml"}},
				"x-amz-request-id": {{Key: "x-amz-request-id", Value: "r1"}},
			},
			Body: "<Error>NoSuchKey</Error>",
		},
	}
}

func TestRewrite_TranscodeMiss(t *testing.T) {
	ev := notFoundEvent("/site/optimized/cat.webp")
	before := ev.Response.Clone()

	got := Rewrite(ev, TranscodeMiss, derived("webp-bytes"))

	assert.Equal(t, "200", got.Status)
	assert.Equal(t, "OK", got.StatusDescription)
	assert.Equal(t, edge.EncodingBase64, got.BodyEncoding)
	body, err := base64.StdEncoding.DecodeString(got.Body)
	assert.NoError(t, err)
	assert.Equal(t, []byte("webp-bytes"), body)
	assert.Equal(t, []edge.Header{{Key: "Content-Type", Value: "image/webp"}}, got.Headers["content-type"])
	assert.Equal(t, []edge.Header{{Key: "Cache-Control", Value: "max-age=7884000"}}, got.Headers["cache-control"])
	assert.Equal(t, "r1", got.Headers.Get("x-amz-request-id"))

	assert.Equal(t, before, ev.Response, "input event must not change")
}

func TestRewrite_TranscodeMissFailed(t *testing.T) {
	ev := notFoundEvent("/site/optimized/cat.webp")
	assert.Equal(t, ev.Response, Rewrite(ev, TranscodeMiss, nil))
}

func TestRewrite_TranscodeMissNilHeaders(t *testing.T) {
	ev := edge.Event{Request: edge.Request{URI: "/optimized/a.webp"}, Response: edge.Response{Status: "404"}}
	got := Rewrite(ev, TranscodeMiss, derived("x"))
	assert.Equal(t, "image/webp", got.Headers.Get("content-type"))
	assert.Nil(t, ev.Response.Headers)
}

func TestRewrite_HeaderFix(t *testing.T) {
	ev := edge.Event{
		Request:  edge.Request{URI: "/site/optimized/cat.webp"},
		Response: edge.Response{Status: "200", Headers: edge.Headers{}, Body: "raw"},
	}
	got := Rewrite(ev, HeaderFix, nil)

	assert.Equal(t, "200", got.Status)
	assert.Equal(t, "raw", got.Body)
	assert.Equal(t, "", got.BodyEncoding)
	assert.Equal(t, []edge.Header{{Key: "Content-Type", Value: "image/webp"}}, got.Headers["content-type"])
	assert.Empty(t, ev.Response.Headers)
}

func TestRewrite_StaticType(t *testing.T) {
	for uri, want := range map[string]string{"/s/site.css": "text/css", "/s/app.js": "text/javascript"} {
		ev := notFoundEvent(uri)
		got := Rewrite(ev, StaticType, nil)

		expected := ev.Response.Clone()
		expected.Headers["content-type"] = []edge.Header{{Key: "Content-Type", Value: want}}
		assert.Equal(t, expected, got, uri)
	}
}

func TestRewrite_Passthrough(t *testing.T) {
	ev := notFoundEvent("/index.html")
	assert.Equal(t, ev.Response, Rewrite(ev, Passthrough, derived("ignored")))
}
