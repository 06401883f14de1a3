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
	"net/http"
	"strconv"

	"github.com/fawa-io/webpedge/pkg/edge"
)

// Rewrite returns the response to hand back to the edge. It never
// modifies ev; the result shares no header storage with it. obj is the
// derived object of a successful miss attempt and nil otherwise.
func Rewrite(ev edge.Event, d Disposition, obj *DerivedObject) edge.Response {
	resp := ev.Response.Clone()

	switch d {
	case TranscodeMiss:
		if obj == nil {
			return resp
		}
		if resp.Headers == nil {
			resp.Headers = edge.Headers{}
		}
		resp.Status = strconv.Itoa(http.StatusOK)
		resp.StatusDescription = http.StatusText(http.StatusOK)
		resp.Body = base64.StdEncoding.EncodeToString(obj.Data)
		resp.BodyEncoding = edge.EncodingBase64
		resp.Headers.Set("Content-Type", obj.ContentType)
		resp.Headers.Set("Cache-Control", obj.CacheControl)
	case HeaderFix:
		if resp.Headers == nil {
			resp.Headers = edge.Headers{}
		}
		resp.Headers.Set("Content-Type", TargetContentType)
	case StaticType:
		ct, ok := StaticContentType(ev.Request.URI)
		if !ok {
			return resp
		}
		if resp.Headers == nil {
			resp.Headers = edge.Headers{}
		}
		resp.Headers.Set("Content-Type", ct)
	}
	return resp
}
