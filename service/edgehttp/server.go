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


// Package edgehttp exposes the transcoding handler over HTTP, either as an
// endpoint that receives edge events or as a reverse proxy in front of
// the origin.
package edgehttp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fawa-io/webpedge/pkg/edge"
	"github.com/fawa-io/webpedge/pkg/fwlog"
	"github.com/fawa-io/webpedge/pkg/storage"
)

// EventHandler processes one edge event and always yields a response.
type EventHandler interface {
	Handle(ctx context.Context, ev edge.Event) edge.Response
}

// Server routes HTTP requests to the event handler.
type Server struct {
	handler       EventHandler
	ledger        storage.Ledger
	proxy         http.Handler
	maxEventBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithLedger enables the transcode record lookup endpoint.
func WithLedger(l storage.Ledger) Option {
	return func(s *Server) { s.ledger = l }
}

// WithProxy serves every unmatched path through p.
func WithProxy(p http.Handler) Option {
	return func(s *Server) { s.proxy = p }
}

// WithMaxEventBytes limits the size of a posted event document.
func WithMaxEventBytes(n int64) Option {
	return func(s *Server) { s.maxEventBytes = n }
}

// NewServer returns a Server dispatching events to h.
func NewServer(h EventHandler, opts ...Option) *Server {
	s := &Server{handler: h, maxEventBytes: 1 << 20}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/edge/origin-response", s.originResponse)
	mux.HandleFunc("GET /v1/records", s.record)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.proxy != nil {
		mux.Handle("/", s.proxy)
	}
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fwlog.Warnf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
