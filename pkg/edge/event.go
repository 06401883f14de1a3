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


// Package edge models the request/response envelope handed to an
// origin-response trigger by a CDN edge. The JSON shape follows the
// CloudFront event record so the same values can be exchanged with the
// edge over the wire.
package edge

import (
	"net/http"
	"strconv"
	"strings"
)

// Body encodings understood by the edge.
const (
	EncodingText   = "text"
	EncodingBase64 = "base64"
)

// Header is a single header value together with its original spelling.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Headers maps a lower-case header name to its values.
type Headers map[string][]Header

// Get returns the first value of the named header, or "" if it is absent.
func (h Headers) Get(name string) string {
	values := h[strings.ToLower(name)]
	if len(values) == 0 {
		return ""
	}
	return values[0].Value
}

// Set replaces the named header with a single value.
func (h Headers) Set(name, value string) {
	h[strings.ToLower(name)] = []Header{{Key: http.CanonicalHeaderKey(name), Value: value}}
}

// Clone returns a deep copy; nil stays nil.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	out := make(Headers, len(h))
	for name, values := range h {
		out[name] = append([]Header(nil), values...)
	}
	return out
}

// FromHTTP converts a net/http header into the edge representation.
func FromHTTP(src http.Header) Headers {
	out := make(Headers, len(src))
	for name, values := range src {
		lower := strings.ToLower(name)
		for _, v := range values {
			out[lower] = append(out[lower], Header{Key: name, Value: v})
		}
	}
	return out
}

// ApplyTo overwrites every header present in h on dst.
func (h Headers) ApplyTo(dst http.Header) {
	for name, values := range h {
		dst.Del(name)
		for _, v := range values {
			dst.Add(name, v.Value)
		}
	}
}

// Request is the viewer request as seen by the trigger.
type Request struct {
	ClientIP    string  `json:"clientIp,omitempty"`
	Method      string  `json:"method,omitempty"`
	URI         string  `json:"uri"`
	Querystring string  `json:"querystring,omitempty"`
	Headers     Headers `json:"headers"`
}

// Response is the origin response as seen by the trigger.
type Response struct {
	Status            string  `json:"status"`
	StatusDescription string  `json:"statusDescription,omitempty"`
	Headers           Headers `json:"headers"`
	Body              string  `json:"body,omitempty"`
	BodyEncoding      string  `json:"bodyEncoding,omitempty"`
}

// StatusCode parses Status; it returns 0 when the status is not a number.
func (r Response) StatusCode() int {
	code, err := strconv.Atoi(strings.TrimSpace(r.Status))
	if err != nil {
		return 0
	}
	return code
}

// Clone returns a copy that shares no header storage with r.
func (r Response) Clone() Response {
	r.Headers = r.Headers.Clone()
	return r
}

// Event is one request/response pair delivered per invocation.
type Event struct {
	Request  Request  `json:"request"`
	Response Response `json:"response"`
}

// Config identifies the distribution that produced a record.
type Config struct {
	DistributionDomainName string `json:"distributionDomainName,omitempty"`
	DistributionID         string `json:"distributionId,omitempty"`
	EventType              string `json:"eventType,omitempty"`
	RequestID              string `json:"requestId,omitempty"`
}

// Record is one element of an event batch.
type Record struct {
	CF struct {
		Config   Config   `json:"config"`
		Request  Request  `json:"request"`
		Response Response `json:"response"`
	} `json:"cf"`
}

// Envelope is the top-level document posted by the edge.
type Envelope struct {
	Records []Record `json:"Records"`
}

// Event returns the request/response pair of the record.
func (r Record) Event() Event {
	return Event{Request: r.CF.Request, Response: r.CF.Response}
}
