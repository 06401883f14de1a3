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


package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/fawa-io/webpedge/pkg/fwlog"
)

// MinioConfig holds the connection settings for an S3 compatible store.
type MinioConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// minioObjectStore holds the client and bucket for object operations.
type minioObjectStore struct {
	client     *minio.Client
	bucketName string
}

// NewMinioObjectStore creates an ObjectStore backed by MinIO or S3.
// Static credentials are used when given; otherwise the usual AWS and
// MinIO environment variables and the instance role are tried in order.
func NewMinioObjectStore(cfg MinioConfig) (ObjectStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket name is required")
	}

	var creds *credentials.Credentials
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	} else {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
			&credentials.IAM{Client: &http.Client{Transport: http.DefaultTransport}},
		})
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	fwlog.Infof("Object store ready: endpoint=%s region=%s bucket=%s ssl=%v",
		cfg.Endpoint, cfg.Region, cfg.Bucket, cfg.UseSSL)

	return &minioObjectStore{client: client, bucketName: cfg.Bucket}, nil
}

// Get implements the ObjectStore interface.
func (m *minioObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateMinioErr(key, err)
	}
	// GetObject is lazy; Stat forces the request so a missing key is
	// reported here rather than on the first Read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, translateMinioErr(key, err)
	}
	return obj, nil
}

// Put implements the ObjectStore interface.
func (m *minioObjectStore) Put(ctx context.Context, key string, data []byte, contentType, cacheControl string) error {
	_, err := m.client.PutObject(ctx, m.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func translateMinioErr(key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", key, err)
}
