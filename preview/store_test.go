// Copyright 2025 The Rivaas Authors
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

//go:build !integration

package preview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":      {Data: []byte("<h1>home</h1>")},
		"docs/index.html": {Data: []byte("<h1>docs</h1>")},
		"css/site.css":    {Data: []byte("body{}")},
		"v1.2/index.html": {Data: []byte("<h1>v1.2</h1>")},
	}
}

func TestStore_ServeHTTP(t *testing.T) {
	t.Parallel()

	store := NewStore(testFS())

	tests := []struct {
		name           string
		method         string
		url            string
		expectedStatus int
		expectedBody   string
		expectedType   string
	}{
		{
			name:           "serves file",
			method:         http.MethodGet,
			url:            "/docs/index.html",
			expectedStatus: http.StatusOK,
			expectedBody:   "<h1>docs</h1>",
			expectedType:   "text/html; charset=utf-8",
		},
		{
			name:           "index.html is not redirected",
			method:         http.MethodGet,
			url:            "/index.html",
			expectedStatus: http.StatusOK,
			expectedBody:   "<h1>home</h1>",
		},
		{
			name:           "content type from extension",
			method:         http.MethodGet,
			url:            "/css/site.css",
			expectedStatus: http.StatusOK,
			expectedType:   "text/css; charset=utf-8",
		},
		{
			name:           "head has no body",
			method:         http.MethodHead,
			url:            "/index.html",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "directory is not listed",
			method:         http.MethodGet,
			url:            "/docs",
			expectedStatus: http.StatusNotFound,
			expectedType:   "application/problem+json; charset=utf-8",
		},
		{
			name:           "root is not listed",
			method:         http.MethodGet,
			url:            "/",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing file",
			method:         http.MethodGet,
			url:            "/missing.html",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "dotted directory is a key like any other",
			method:         http.MethodGet,
			url:            "/v1.2",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "post is rejected",
			method:         http.MethodPost,
			url:            "/index.html",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.url, nil)
			w := httptest.NewRecorder()
			store.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}
			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, w.Header().Get("Content-Type"))
			}
			if tt.method == http.MethodHead {
				assert.Empty(t, w.Body.String())
			}
		})
	}
}

func TestStore_ProblemDetails(t *testing.T) {
	t.Parallel()

	store := NewStore(testFS())

	req := httptest.NewRequest(http.MethodGet, "/missing.html", nil)
	w := httptest.NewRecorder()
	store.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "about:blank", problem["type"])
	assert.Equal(t, "Not Found", problem["title"])
	assert.InDelta(t, http.StatusNotFound, problem["status"], 0)
	assert.Equal(t, ErrNotFound.Error(), problem["detail"])
	assert.Equal(t, "/missing.html", problem["instance"])
	assert.NotEmpty(t, problem["error_id"])
}

func TestStore_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	NewStore(testFS()).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/index.html", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
	assert.Contains(t, w.Body.String(), ErrMethodNotAllowed.Error())
}
