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


package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fawa-io/webpedge/pkg/config"
	"github.com/fawa-io/webpedge/pkg/cors"
	"github.com/fawa-io/webpedge/pkg/fwlog"
	"github.com/fawa-io/webpedge/pkg/storage"
	"github.com/fawa-io/webpedge/service/edgehttp"
	"github.com/fawa-io/webpedge/service/transcode"
)

func main() {
	if err := config.InitConfig(); err != nil {
		fwlog.Fatalf("Failed to initialize configuration: %v", err)
	}
	cfg := config.Get()

	level, err := fwlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		fwlog.Fatal(err)
	}
	fwlog.SetLevel(level)

	opts := transcode.Options{
		Quality:        cfg.Transcode.Quality,
		DerivedPrefix:  cfg.Transcode.DerivedPrefix,
		OriginalPrefix: cfg.Transcode.OriginalPrefix,
	}
	if err := opts.Validate(); err != nil {
		fwlog.Fatalf("Invalid transcode options: %v", err)
	}

	store, err := storage.NewMinioObjectStore(storage.MinioConfig{
		Endpoint:        cfg.Store.Endpoint,
		Region:          cfg.Store.Region,
		Bucket:          cfg.Store.Bucket,
		AccessKeyID:     cfg.Store.AccessKeyID,
		SecretAccessKey: cfg.Store.SecretAccessKey,
		UseSSL:          cfg.Store.UseSSL,
	})
	if err != nil {
		fwlog.Fatalf("Failed to create object store: %v", err)
	}

	// The ledger is optional; without it nothing is recorded.
	var ledger storage.Ledger
	if cfg.Ledger.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		ledger, err = storage.NewDragonflyLedger(ctx, cfg.Ledger.Addr, transcode.CacheHorizon)
		cancel()
		if err != nil {
			fwlog.Fatalf("Failed to connect to transcode ledger: %v", err)
		}
	}

	handler := transcode.NewHandler(opts, store, ledger)

	srvOpts := []edgehttp.Option{edgehttp.WithMaxEventBytes(cfg.Server.MaxEventBytes)}
	if ledger != nil {
		srvOpts = append(srvOpts, edgehttp.WithLedger(ledger))
	}
	if cfg.Origin.URL != "" {
		origin, err := url.Parse(cfg.Origin.URL)
		if err != nil {
			fwlog.Fatalf("Invalid origin.url %q: %v", cfg.Origin.URL, err)
		}
		srvOpts = append(srvOpts, edgehttp.WithProxy(edgehttp.NewOriginProxy(origin, handler)))
		fwlog.Infof("Proxying origin %s", origin)
	}

	edgeSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           cors.NewCORS().Handler(edgehttp.NewServer(handler, srvOpts...).Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Setup graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		fwlog.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := edgeSrv.Shutdown(ctx); err != nil {
			fwlog.Errorf("Server shutdown error: %v", err)
		}

		fwlog.Info("Server shutdown complete")
	}()

	fwlog.Infof("Server starting on %v (bucket=%s quality=%d)", cfg.Server.Addr, cfg.Store.Bucket, opts.Quality)

	if cfg.Server.CertFile != "" && cfg.Server.KeyFile != "" {
		err = edgeSrv.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
	} else {
		err = edgeSrv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		fwlog.Fatalf("Failed to start server: %v", err)
	}
	<-shutdownDone
}
