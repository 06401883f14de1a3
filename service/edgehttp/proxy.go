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
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"

	"github.com/fawa-io/webpedge/pkg/edge"
	"github.com/fawa-io/webpedge/pkg/fwlog"
)

type viewerURIKey struct{}

// NewOriginProxy returns a reverse proxy to origin that runs every origin
// response through h before it reaches the client. The event URI is the
// path the viewer asked for, independent of any path on origin.
func NewOriginProxy(origin *url.URL, h EventHandler) http.Handler {
	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(origin)
			pr.SetXForwarded()
		},
		ModifyResponse: func(resp *http.Response) error {
			return applyEvent(resp, h)
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			fwlog.Errorf("Origin request %s %s failed: %v", r.Method, r.URL.Path, err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), viewerURIKey{}, r.URL.Path)
		rp.ServeHTTP(w, r.WithContext(ctx))
	})
}

func viewerURI(r *http.Request) string {
	if uri, ok := r.Context().Value(viewerURIKey{}).(string); ok {
		return uri
	}
	return r.URL.Path
}

// applyEvent converts resp into an edge event, hands it to h and writes
// the result back onto resp. The origin body is not read: the event
// carries an empty body and is only replaced when h produces one.
func applyEvent(resp *http.Response, h EventHandler) error {
	req := resp.Request
	ev := edge.Event{
		Request: edge.Request{
			Method:      req.Method,
			URI:         viewerURI(req),
			Querystring: req.URL.RawQuery,
			Headers:     edge.FromHTTP(req.Header),
		},
		Response: edge.Response{
			Status:            strconv.Itoa(resp.StatusCode),
			StatusDescription: http.StatusText(resp.StatusCode),
			Headers:           edge.FromHTTP(resp.Header),
		},
	}

	out := h.Handle(req.Context(), ev)

	out.Headers.ApplyTo(resp.Header)
	if code := out.StatusCode(); code != 0 && code != resp.StatusCode {
		resp.StatusCode = code
		resp.Status = fmt.Sprintf("%d %s", code, http.StatusText(code))
	}
	if out.Body == "" {
		return nil
	}

	body := []byte(out.Body)
	if out.BodyEncoding == edge.EncodingBase64 {
		decoded, err := base64.StdEncoding.DecodeString(out.Body)
		if err != nil {
			return fmt.Errorf("decode rewritten body: %w", err)
		}
		body = decoded
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("ETag")
	return nil
}
