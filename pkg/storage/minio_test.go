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
	"errors"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestTranslateMinioErr(t *testing.T) {
	notFound := translateMinioErr("a.png", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.Contains(t, notFound.Error(), "a.png")

	denied := translateMinioErr("a.png", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden})
	assert.False(t, errors.Is(denied, ErrNotFound))

	plain := translateMinioErr("a.png", errors.New("connection reset"))
	assert.False(t, errors.Is(plain, ErrNotFound))
	assert.Contains(t, plain.Error(), "connection reset")
}

func TestNewMinioObjectStore_RequiresBucket(t *testing.T) {
	_, err := NewMinioObjectStore(MinioConfig{Endpoint: "localhost:9000"})
	assert.Error(t, err)
}

func TestNewMinioObjectStore(t *testing.T) {
	store, err := NewMinioObjectStore(MinioConfig{
		Endpoint:        "localhost:9000",
		Region:          "us-east-2",
		Bucket:          "images",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
	})
	assert.NoError(t, err)
	assert.NotNil(t, store)
}
