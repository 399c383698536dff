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

func newTestDispatcher(t *testing.T, opts ...Option) *Dispatcher {
	t.Helper()

	d, err := NewDispatcher([]*Handler{
		NewViewerHandler(edge.MustNewViewer(testDomain)),
		NewOriginHandler(edge.MustNewOrigin(testDomain)),
	}, opts...)
	require.NoError(t, err)
	return d
}

func TestDispatcher_RoutesByEventType(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t)

	// The same request is redirected at the viewer and rewritten at the origin.
	out, err := d.Handle(context.Background(), mustEvent(t, EventViewerRequest, "/docs", "www.example.com"))
	require.NoError(t, err)
	resp, ok := out.(Response)
	require.True(t, ok)
	assert.Equal(t, edge.DescriptionApexDomain, resp.StatusDescription)

	out, err = d.Handle(context.Background(), mustEvent(t, EventOriginRequest, "/docs", "www.example.com"))
	require.NoError(t, err)
	raw, ok := out.(json.RawMessage)
	require.True(t, ok)
	req, err := ExtractRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, "/docs/index.html", req.URI)
}

func TestDispatcher_Errors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := newTestDispatcher(t, WithLogger(logging.MustNew(logging.WithOutput(&buf))))

	tests := []struct {
		name   string
		event  Event
		target error
	}{
		{
			name:   "no records",
			event:  Event{},
			target: ErrNoRecords,
		},
		{
			name:   "unknown event type",
			event:  mustEvent(t, "viewer-response", "/", testDomain),
			target: ErrUnsupportedEventType,
		},
		{
			name:   "empty event type",
			event:  mustEvent(t, "", "/", testDomain),
			target: ErrUnsupportedEventType,
		},
		{
			name: "malformed request",
			event: Event{Records: []Record{{CF: CloudFront{
				Config:  Config{EventType: EventOriginRequest},
				Request: json.RawMessage(`{}`),
			}}}},
			target: ErrMalformedRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := d.Handle(context.Background(), tt.event)
			require.ErrorIs(t, err, tt.target)
			assert.Nil(t, out)
		})
	}

	assert.Contains(t, buf.String(), "edge event rejected")
	assert.Contains(t, buf.String(), "edge event failed")
}

func TestNewDispatcher_Invalid(t *testing.T) {
	t.Parallel()

	viewer := edge.MustNewViewer(testDomain)

	_, err := NewDispatcher([]*Handler{NewViewerHandler(viewer), NewViewerHandler(viewer)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate handler for viewer-request")

	_, err = NewDispatcher([]*Handler{nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler 0 is nil")

	assert.Panics(t, func() { MustNewDispatcher([]*Handler{nil}) })
}
