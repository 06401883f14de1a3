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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	bad := []Options{
		{Quality: -1, DerivedPrefix: "/optimized/", OriginalPrefix: "/original/"},
		{Quality: 101, DerivedPrefix: "/optimized/", OriginalPrefix: "/original/"},
		{Quality: 75, DerivedPrefix: "", OriginalPrefix: "/original/"},
		{Quality: 75, DerivedPrefix: "/same/", OriginalPrefix: "/same/"},
		{Quality: 75, DerivedPrefix: "optimized", OriginalPrefix: "/original/"},
	}
	for _, o := range bad {
		assert.Error(t, o.Validate(), "%+v", o)
	}
}

func TestCacheControlMatchesHorizon(t *testing.T) {
	assert.Equal(t, "max-age=7884000", CacheControl)
	assert.Equal(t, 7884000*time.Second, CacheHorizon)
}
