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
	"net/http"
	"path"
)

// Disposition is the action chosen for one edge event.
type Disposition int

const (
	// Passthrough leaves the response as received.
	Passthrough Disposition = iota
	// TranscodeMiss means the derived object is missing and must be built.
	TranscodeMiss
	// HeaderFix means the derived object was served without its content type.
	HeaderFix
	// StaticType means a stylesheet or script needs its content type set.
	StaticType
)

func (d Disposition) String() string {
	switch d {
	case Passthrough:
		return "passthrough"
	case TranscodeMiss:
		return "transcode-miss"
	case HeaderFix:
		return "header-fix"
	case StaticType:
		return "static-type"
	}
	return "unknown"
}

var staticTypes = map[string]string{
	".css": "text/css",
	".js":  "text/javascript",
}

// StaticContentType returns the content type for a static asset URI.
func StaticContentType(uri string) (string, bool) {
	ct, ok := staticTypes[path.Ext(uri)]
	return ct, ok
}

// Classify decides what to do with a response from its request URI and
// status code. The extension match is on the literal suffix.
func Classify(uri string, status int) Disposition {
	ext := path.Ext(uri)
	if ext == TargetExt {
		switch {
		case status == http.StatusNotFound:
			return TranscodeMiss
		case status >= 200 && status < 300:
			return HeaderFix
		default:
			return Passthrough
		}
	}
	if _, ok := staticTypes[ext]; ok {
		return StaticType
	}
	return Passthrough
}
