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


// Command client posts a single origin-response event to a running
// server and prints the rewritten response.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/fawa-io/webpedge/pkg/edge"
	"github.com/fawa-io/webpedge/pkg/fwlog"
)

func main() {
	addr := pflag.String("addr", "http://127.0.0.1:8080", "Server base URL")
	uri := pflag.String("uri", "/images/optimized/sample.webp", "Requested URI")
	status := pflag.String("status", "404", "Origin response status")
	hint := pflag.String("hint", "image/jpeg", "Value of the original-resource-type header; empty to omit")
	out := pflag.String("out", "", "Write the decoded response body to this file")
	pflag.Parse()

	req := edge.Request{Method: http.MethodGet, URI: *uri, Headers: edge.Headers{}}
	if *hint != "" {
		req.Headers.Set("original-resource-type", *hint)
	}
	var env edge.Envelope
	env.Records = make([]edge.Record, 1)
	env.Records[0].CF.Config.EventType = "origin-response"
	env.Records[0].CF.Request = req
	env.Records[0].CF.Response = edge.Response{Status: *status, Headers: edge.Headers{}}

	payload, err := json.Marshal(env)
	if err != nil {
		fwlog.Fatal(err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	res, err := client.Post(*addr+"/v1/edge/origin-response", "application/json", bytes.NewReader(payload))
	if err != nil {
		fwlog.Fatalf("Request failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		fwlog.Fatalf("Server answered %s", res.Status)
	}

	var resp edge.Response
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		fwlog.Fatalf("Malformed response: %v", err)
	}
	fwlog.Infof("status=%s content-type=%q cache-control=%q body=%d chars (%s)",
		resp.Status, resp.Headers.Get("content-type"), resp.Headers.Get("cache-control"),
		len(resp.Body), resp.BodyEncoding)

	if *out == "" || resp.Body == "" {
		return
	}
	body := []byte(resp.Body)
	if resp.BodyEncoding == edge.EncodingBase64 {
		if body, err = base64.StdEncoding.DecodeString(resp.Body); err != nil {
			fwlog.Fatalf("Body is not valid base64: %v", err)
		}
	}
	if err := os.WriteFile(*out, body, 0o644); err != nil {
		fwlog.Fatal(err)
	}
	fwlog.Infof("Wrote %d bytes to %s", len(body), *out)
}
