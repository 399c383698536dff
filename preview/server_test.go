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
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rivaas.dev/logging"

	"rivaas.dev/edge"
	"rivaas.dev/edge/config"
)

func testSettings() *config.Settings {
	return &config.Settings{
		Domain: "example.com",
		Index:  "index.html",
		Server: config.ServerSettings{Addr: "127.0.0.1:0", Grace: time.Second},
		Log:    config.LogSettings{Level: "info", Format: "json"},
	}
}

func TestServer_Chain(t *testing.T) {
	t.Parallel()

	srv := MustNewServer(testSettings(), WithFS(testFS()))

	tests := []struct {
		name             string
		host             string
		url              string
		expectedStatus   int
		expectedLocation string
		expectedBody     string
	}{
		{
			name:             "www host redirects to apex",
			host:             "www.example.com",
			url:              "/docs",
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: "https://example.com/docs",
		},
		{
			name:             "trailing slash is stripped",
			host:             "example.com",
			url:              "/docs/",
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: "https://example.com/docs",
		},
		{
			name:           "directory serves default document",
			host:           "example.com",
			url:            "/docs",
			expectedStatus: http.StatusOK,
			expectedBody:   "<h1>docs</h1>",
		},
		{
			name:           "root serves default document",
			host:           "example.com",
			url:            "/",
			expectedStatus: http.StatusOK,
			expectedBody:   "<h1>home</h1>",
		},
		{
			name:           "file is served as is",
			host:           "example.com",
			url:            "/css/site.css",
			expectedStatus: http.StatusOK,
			expectedBody:   "body{}",
		},
		{
			name:           "dotted directory is treated as a file",
			host:           "example.com",
			url:            "/v1.2",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing page",
			host:           "example.com",
			url:            "/nope",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}
			assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
		})
	}
}

func TestServer_RequestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.MustNew(logging.WithOutput(&buf))
	srv := MustNewServer(testSettings(), WithFS(testFS()), WithLogger(logger))

	req := httptest.NewRequest(http.MethodGet, "/docs/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	assert.Contains(t, buf.String(), "http request")
	assert.Contains(t, buf.String(), `"status":301`)
	assert.Contains(t, buf.String(), `"request_id":"abc-123"`)
}

func TestNewServer_InvalidSettings(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.Domain = ""
	_, err := NewServer(settings, WithFS(testFS()))
	require.ErrorIs(t, err, edge.ErrEmptyDomain)

	settings = testSettings()
	settings.Index = "index"
	_, err = NewServer(settings, WithFS(testFS()))
	require.ErrorIs(t, err, edge.ErrInvalidDefaultDocument)

	assert.Panics(t, func() { MustNewServer(settings) })
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	srv := MustNewServer(testSettings(), WithFS(testFS()))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+ln.Addr().String()+"/", nil)
	require.NoError(t, err)
	req.Host = "example.com"

	require.Eventually(t, func() bool {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RunFailsOnBadAddress(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.Server.Addr = "not-an-address"
	srv := MustNewServer(settings, WithFS(testFS()))

	err := srv.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
