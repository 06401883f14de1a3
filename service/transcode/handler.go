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
	"context"
	"fmt"

	"github.com/fawa-io/webpedge/pkg/edge"
	"github.com/fawa-io/webpedge/pkg/fwlog"
	"github.com/fawa-io/webpedge/pkg/storage"
)

// Handler is the per-event entry point. It holds no per-event state and
// may be shared by any number of concurrent invocations.
type Handler struct {
	keys      KeyMapper
	engine    *Engine
	populator *Populator
}

// NewHandler wires a Handler from immutable options. ledger may be nil.
func NewHandler(opts Options, store storage.ObjectStore, ledger storage.Ledger) *Handler {
	return &Handler{
		keys:      KeyMapper{DerivedPrefix: opts.DerivedPrefix, OriginalPrefix: opts.OriginalPrefix},
		engine:    NewEngine(store, opts.Quality),
		populator: NewPopulator(store, ledger, opts.Quality),
	}
}

// Handle processes one edge event and always returns a response. When
// anything goes wrong on the miss path the response is returned as
// received.
func (h *Handler) Handle(ctx context.Context, ev edge.Event) edge.Response {
	d := Classify(ev.Request.URI, ev.Response.StatusCode())
	fwlog.Debugf("Event %s %s status=%s: %s", ev.Request.Method, ev.Request.URI, ev.Response.Status, d)

	if d != TranscodeMiss {
		return Rewrite(ev, d, nil)
	}

	derivedKey := h.keys.DerivedKey(ev.Request.URI)
	originalKey := h.keys.DeriveOriginalKey(ev.Request.URI, FormatHint(ev.Request.Headers))

	obj, err := h.transcode(ctx, originalKey)
	if err != nil {
		fwlog.Errorf("Error processing image %s from %s: %v", derivedKey, originalKey, err)
		return Rewrite(ev, d, nil)
	}

	if err := h.populate(ctx, derivedKey, obj); err != nil {
		fwlog.Errorf("Error storing image %s from %s: %v", derivedKey, originalKey, err)
	} else {
		fwlog.Infof("Stored %s (%d bytes) from %s", derivedKey, len(obj.Data), originalKey)
	}

	return Rewrite(ev, d, obj)
}

func (h *Handler) transcode(ctx context.Context, originalKey string) (obj *DerivedObject, err error) {
	defer func() {
		if r := recover(); r != nil {
			obj, err = nil, fmt.Errorf("panic while transcoding: %v", r)
		}
	}()
	return h.engine.Transcode(ctx, originalKey)
}

func (h *Handler) populate(ctx context.Context, derivedKey string, obj *DerivedObject) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while storing: %v", r)
		}
	}()
	return h.populator.Populate(ctx, derivedKey, obj)
}
