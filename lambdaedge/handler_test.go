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

package lambdaedge

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rivaas.dev/logging"

	"rivaas.dev/edge"
)

const testDomain = "example.com"

func mustEvent(t *testing.T, eventType, uri, host string) Event {
	t.Helper()

	event, err := NewEvent(eventType, edge.NewRequest(uri, host))
	require.NoError(t, err)
	return event
}

func TestHandler_Scenarios(t *testing.T) {
	t.Parallel()

	viewer := NewViewerHandler(edge.MustNewViewer(testDomain))
	origin := NewOriginHandler(edge.MustNewOrigin(testDomain))

	tests := []struct {
		name             string
		handler          *Handler
		host             string
		uri              string
		expectedLocation string
		expectedURI      string
	}{
		{
			name:             "viewer redirects www to apex",
			handler:          viewer,
			host:             "www.example.com",
			uri:              "/about",
			expectedLocation: "https://example.com/about",
		},
		{
			name:             "viewer strips trailing slash",
			handler:          viewer,
			host:             testDomain,
			uri:              "/about/",
			expectedLocation: "https://example.com/about",
		},
		{
			name:        "viewer forwards canonical request",
			handler:     viewer,
			host:        testDomain,
			uri:         "/about",
			expectedURI: "/about",
		},
		{
			name:             "origin strips trailing slash",
			handler:          origin,
			host:             testDomain,
			uri:              "/docs/",
			expectedLocation: "https://example.com/docs",
		},
		{
			name:        "origin appends default document",
			handler:     origin,
			host:        testDomain,
			uri:         "/docs",
			expectedURI: "/docs/index.html",
		},
		{
			name:        "origin resolves root",
			handler:     origin,
			host:        testDomain,
			uri:         "/",
			expectedURI: "/index.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := tt.handler.Handle(context.Background(), mustEvent(t, tt.handler.EventType(), tt.uri, tt.host))
			require.NoError(t, err)

			if tt.expectedLocation != "" {
				resp, ok := out.(Response)
				require.True(t, ok, "expected Response, got %T", out)
				assert.Equal(t, "301", resp.Status)
				assert.Equal(t, tt.expectedLocation, resp.Headers.Get("location"))
				return
			}

			raw, ok := out.(json.RawMessage)
			require.True(t, ok, "expected json.RawMessage, got %T", out)
			req, err := ExtractRequest(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedURI, req.URI)
			assert.Equal(t, tt.host, req.Host())
		})
	}
}

func TestHandler_UnchangedRequestIsReturnedAsIs(t *testing.T) {
	t.Parallel()

	h := NewViewerHandler(edge.MustNewViewer(testDomain))
	event := Event{Records: []Record{{CF: CloudFront{
		Config:  Config{EventType: EventViewerRequest},
		Request: json.RawMessage(cloudFrontRequest),
	}}}}

	out, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(cloudFrontRequest), out)
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()

	h := NewOriginHandler(edge.MustNewOrigin(testDomain))

	t.Run("no records", func(t *testing.T) {
		t.Parallel()
		_, err := h.Handle(context.Background(), Event{})
		require.ErrorIs(t, err, ErrNoRecords)
		assert.Contains(t, err.Error(), EventOriginRequest)
	})

	t.Run("malformed request", func(t *testing.T) {
		t.Parallel()
		event := Event{Records: []Record{{CF: CloudFront{Request: json.RawMessage(`{"headers":{}}`)}}}}
		_, err := h.Handle(context.Background(), event)
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := h.Handle(ctx, mustEvent(t, EventOriginRequest, "/docs", testDomain))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestHandler_LogsRewrites(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.MustNew(logging.WithOutput(&buf), logging.WithDebugLevel())
	h := NewOriginHandler(edge.MustNewOrigin(testDomain), WithLogger(logger))

	event := mustEvent(t, EventOriginRequest, "/docs", testDomain)
	event.Records[0].CF.Config.RequestID = "req-1"
	_, err := h.Handle(context.Background(), event)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "edge rewrite")
	assert.Contains(t, buf.String(), `"rewritten":"/docs/index.html"`)
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	buf.Reset()
	_, err = h.Handle(context.Background(), mustEvent(t, EventOriginRequest, "/docs/", testDomain))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "edge redirect")
	assert.Contains(t, buf.String(), `"location":"https://example.com/docs"`)
}
