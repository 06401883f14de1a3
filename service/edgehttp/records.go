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
	"errors"
	"net/http"

	"github.com/fawa-io/webpedge/pkg/fwlog"
	"github.com/fawa-io/webpedge/pkg/storage"
)

func (s *Server) record(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, http.StatusServiceUnavailable, "transcode ledger is not configured")
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key cannot be empty")
		return
	}

	rec, err := s.ledger.GetRecord(r.Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no record for key")
		return
	}
	if err != nil {
		fwlog.Errorf("Failed to get transcode record for %s: %v", key, err)
		writeError(w, http.StatusInternalServerError, "could not read record")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
