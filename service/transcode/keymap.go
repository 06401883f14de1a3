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
	"strings"

	"github.com/fawa-io/webpedge/pkg/edge"
)

// FormatHintHeader carries the MIME type of the original image. It is
// set upstream of the edge, usually by a viewer-request trigger.
const FormatHintHeader = "original-resource-type"

// FormatHint returns the lower-case MIME subtype from the first value of
// the format hint header, or "" when the header is absent.
func FormatHint(h edge.Headers) string {
	v := strings.TrimSpace(h.Get(FormatHintHeader))
	v = strings.Replace(v, "image/", "", 1)
	return strings.ToLower(v)
}

// KeyMapper relates keys in the derived and original namespaces.
type KeyMapper struct {
	DerivedPrefix  string
	OriginalPrefix string
}

// DerivedKey is the storage key of the object requested at uri.
func (m KeyMapper) DerivedKey(uri string) string {
	return strings.TrimPrefix(uri, "/")
}

// DeriveOriginalKey maps a derived URI path to the key of its original.
// An empty hint leaves a bare "." suffix, which never exists in the
// store and so ends as a miss.
func (m KeyMapper) DeriveOriginalKey(derivedURIPath, formatHint string) string {
	key := m.DerivedKey(derivedURIPath)
	key = strings.Replace(key, m.DerivedPrefix, m.OriginalPrefix, 1)
	key = strings.TrimSuffix(key, TargetExt)
	return key + "." + formatHint
}
