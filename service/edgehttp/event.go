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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fawa-io/webpedge/pkg/edge"
	"github.com/fawa-io/webpedge/pkg/fwlog"
)

// originResponse accepts an origin-response event document and replies
// with the response object the edge should deliver. The edge sends one
// record per invocation; any further records are ignored.
func (s *Server) originResponse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxEventBytes)

	var env edge.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "event too large")
			return
		}
		writeError(w, http.StatusBadRequest, "malformed event: "+err.Error())
		return
	}
	if len(env.Records) == 0 {
		writeError(w, http.StatusBadRequest, "event has no records")
		return
	}
	if len(env.Records) > 1 {
		fwlog.Warnf("Event carries %d records, only the first is processed", len(env.Records))
	}

	resp := s.handler.Handle(r.Context(), env.Records[0].Event())
	writeJSON(w, http.StatusOK, resp)
}
