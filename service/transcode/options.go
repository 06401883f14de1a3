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


// Package transcode turns a missing WebP rendition into a real one on the
// origin-response path: it finds the original image, re-encodes it,
// writes the result back to the store and patches the response so the
// client gets the new bytes on the same request.
package transcode

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// TargetExt is the literal suffix that marks a derived object.
	TargetExt = ".webp"
	// TargetContentType is the content type of every derived object.
	TargetContentType = "image/webp"
	// CacheHorizon is how long edges and browsers may keep a derived
	// object, roughly 90 days.
	CacheHorizon = 7884000 * time.Second
	// CacheControl must agree with CacheHorizon.
	CacheControl = "max-age=7884000"
)

const (
	DefaultQuality        = 75
	DefaultDerivedPrefix  = "/optimized/"
	DefaultOriginalPrefix = "/original/"
)

// Options is fixed at process start and shared read-only by every
// invocation.
type Options struct {
	// Quality is the WebP encoder quality, 0-100.
	Quality int
	// DerivedPrefix is the path segment of the derived namespace.
	DerivedPrefix string
	// OriginalPrefix replaces DerivedPrefix to locate the original.
	OriginalPrefix string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Quality:        DefaultQuality,
		DerivedPrefix:  DefaultDerivedPrefix,
		OriginalPrefix: DefaultOriginalPrefix,
	}
}

// Validate reports the first problem found in o.
func (o Options) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("quality %d out of range 0-100", o.Quality)
	}
	if o.DerivedPrefix == "" || o.OriginalPrefix == "" {
		return errors.New("namespace prefixes must not be empty")
	}
	if o.DerivedPrefix == o.OriginalPrefix {
		return fmt.Errorf("derived and original prefixes are both %q", o.DerivedPrefix)
	}
	if !strings.HasPrefix(o.DerivedPrefix, "/") || !strings.HasSuffix(o.DerivedPrefix, "/") ||
		!strings.HasPrefix(o.OriginalPrefix, "/") || !strings.HasSuffix(o.OriginalPrefix, "/") {
		return errors.New("namespace prefixes must start and end with '/'")
	}
	return nil
}
