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
	"context"
	"fmt"
	"io"

	"rivaas.dev/logging"

	"rivaas.dev/edge"
)

// Option configures a [Handler] or [Dispatcher].
type Option func(*config)

type config struct {
	logger *logging.Logger
}

func defaultConfig() *config {
	return &config{}
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = logging.MustNew(logging.WithOutput(io.Discard))
	}
	return cfg
}

// WithLogger sets the logger redirects, rewrites and failures are reported
// to. Without it nothing is logged.
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Handler runs one transformer against Lambda@Edge events.
type Handler struct {
	eventType string
	transform func(edge.Request) edge.Result
	logger    *logging.Logger
}

// NewViewerHandler returns a handler for the viewer-request trigger.
func NewViewerHandler(v *edge.Viewer, opts ...Option) *Handler {
	return newHandler(EventViewerRequest, v.Transform, opts)
}

// NewOriginHandler returns a handler for the origin-request trigger.
func NewOriginHandler(o *edge.Origin, opts ...Option) *Handler {
	return newHandler(EventOriginRequest, o.Transform, opts)
}

func newHandler(eventType string, transform func(edge.Request) edge.Result, opts []Option) *Handler {
	cfg := applyOptions(opts)
	return &Handler{
		eventType: eventType,
		transform: transform,
		logger:    cfg.logger,
	}
}

// EventType returns the CloudFront trigger the handler was built for.
func (h *Handler) EventType() string {
	return h.eventType
}

// Handle transforms the first record of event. It returns a [Response] for a
// redirect, otherwise the request to forward as raw JSON. An unchanged
// request is returned byte for byte.
//
// Handle does not check the event type; use a [Dispatcher] for that.
//
// Errors:
//   - [ErrNoRecords] if the event has no records
//   - [ErrMalformedRequest] if cf.request cannot be decoded
func (h *Handler) Handle(ctx context.Context, event Event) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(event.Records) == 0 {
		return nil, fmt.Errorf("%s: %w", h.eventType, ErrNoRecords)
	}

	cf := event.Records[0].CF
	req, err := ExtractRequest(cf.Request)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.eventType, err)
	}

	result := h.transform(req)
	if result.IsRedirect() {
		h.logger.Debug("edge redirect",
			"event_type", h.eventType,
			"request_id", cf.Config.RequestID,
			"uri", req.URI,
			"status", result.Redirect.Status,
			"location", result.Redirect.Location,
		)
		return NewResponse(result.Redirect), nil
	}

	if result.Request.URI == req.URI {
		return cf.Request, nil
	}

	out, err := InsertRequest(cf.Request, result.Request)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.eventType, err)
	}
	h.logger.Debug("edge rewrite",
		"event_type", h.eventType,
		"request_id", cf.Config.RequestID,
		"uri", req.URI,
		"rewritten", result.Request.URI,
	)
	return out, nil
}
