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

// Package lambdaedge runs the edge transformers as CloudFront Lambda@Edge
// functions.
//
// CloudFront delivers the request inside an event envelope:
//
//	{"Records": [{"cf": {"config": {...}, "request": {"uri": "/docs/", "headers": {...}, ...}}}]}
//
// A handler takes the request out of Records[0].cf.request, runs a transformer
// and returns either a redirect response or the request to forward. Only the
// uri is ever rewritten; every other request field is returned as received.
//
// # Basic Usage
//
//	viewer := edge.MustNewViewer("example.com")
//	origin := edge.MustNewOrigin("example.com")
//
//	d, err := lambdaedge.NewDispatcher([]*lambdaedge.Handler{
//	    lambdaedge.NewViewerHandler(viewer),
//	    lambdaedge.NewOriginHandler(origin),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	lambda.Start(d.Handle)
//
// The dispatcher routes on cf.config.eventType, so a single function can be
// attached to both the viewer-request and origin-request triggers.
//
// # Redirect Response
//
// Redirects are returned in the shape CloudFront expects for a generated
// response:
//
//	{
//	  "status": "301",
//	  "statusDescription": "Moved permanently",
//	  "headers": {"location": [{"key": "Location", "value": "https://example.com/docs"}]}
//	}
package lambdaedge
