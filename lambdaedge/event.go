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
	"encoding/json"
	"fmt"

	"rivaas.dev/edge"
)

// CloudFront event types handled by this package.
const (
	EventViewerRequest = "viewer-request"
	EventOriginRequest = "origin-request"
)

// Event is the envelope CloudFront invokes the function with.
type Event struct {
	Records []Record `json:"Records"`
}

// Record is a single entry of [Event.Records].
type Record struct {
	CF CloudFront `json:"cf"`
}

// CloudFront holds the distribution metadata and the raw request. The
// request is kept raw so fields this package does not model survive a
// rewrite.
type CloudFront struct {
	Config  Config          `json:"config"`
	Request json.RawMessage `json:"request"`
}

// Config describes the distribution and trigger that produced the event.
type Config struct {
	DistributionDomainName string `json:"distributionDomainName,omitempty"`
	DistributionID         string `json:"distributionId,omitempty"`
	EventType              string `json:"eventType"`
	RequestID              string `json:"requestId,omitempty"`
}

// NewEvent builds a single-record event around req, as CloudFront would
// deliver it for eventType.
func NewEvent(eventType string, req edge.Request) (Event, error) {
	raw, err := json.Marshal(struct {
		ClientIP string       `json:"clientIp"`
		Method   string       `json:"method"`
		URI      string       `json:"uri"`
		Query    string       `json:"querystring"`
		Headers  edge.Headers `json:"headers"`
	}{
		ClientIP: "127.0.0.1",
		Method:   "GET",
		URI:      req.URI,
		Headers:  req.Headers,
	})
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode request: %w", err)
	}

	return Event{Records: []Record{{CF: CloudFront{
		Config:  Config{EventType: eventType},
		Request: raw,
	}}}}, nil
}

// Response is a response generated at the edge instead of forwarding the
// request.
type Response struct {
	Status            string       `json:"status"`
	StatusDescription string       `json:"statusDescription"`
	Headers           edge.Headers `json:"headers"`
}

// NewResponse renders a redirect as a CloudFront generated response.
func NewResponse(rd *edge.Redirect) Response {
	return Response{
		Status:            rd.StatusString(),
		StatusDescription: rd.Description,
		Headers: edge.Headers{
			"location": {{Key: "Location", Value: rd.Location}},
		},
	}
}

// ExtractRequest decodes the uri and headers of a CloudFront request.
//
// Errors:
//   - [ErrMalformedRequest] if raw is not a JSON object or has no uri
func ExtractRequest(raw json.RawMessage) (edge.Request, error) {
	var in struct {
		URI     string       `json:"uri"`
		Headers edge.Headers `json:"headers"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return edge.Request{}, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	if in.URI == "" {
		return edge.Request{}, fmt.Errorf("%w: missing uri", ErrMalformedRequest)
	}
	return edge.Request{URI: in.URI, Headers: in.Headers}, nil
}

// InsertRequest returns raw with its uri replaced by req.URI. All other
// fields are copied unchanged.
//
// Errors:
//   - [ErrMalformedRequest] if raw is not a JSON object
func InsertRequest(raw json.RawMessage, req edge.Request) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: request is null", ErrMalformedRequest)
	}

	uri, err := json.Marshal(req.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to encode uri: %w", err)
	}
	fields["uri"] = uri

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return out, nil
}
