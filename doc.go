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

// Package edge rewrites requests at a content-delivery edge.
//
// Two transformers are provided, one for each point in the request lifecycle
// where an edge host can intercept a request:
//
//   - [Viewer] runs on requests arriving from the client, before cache lookup.
//     It enforces the canonical (apex) domain and strips trailing slashes.
//   - [Origin] runs on requests that missed the cache and are about to be
//     forwarded to the origin store. It strips trailing slashes and resolves
//     directory-style paths to a default document.
//
// Both transformers are pure: [Viewer.Transform] and [Origin.Transform] take a
// [Request] by value and return a [Result] that holds either the (possibly
// rewritten) request or a [Redirect], never both. They hold no mutable state
// and are safe for concurrent use.
//
// # Quick Start
//
//	viewer := edge.MustNewViewer("example.com")
//	res := viewer.Transform(edge.NewRequest("/about/", "example.com"))
//	if res.IsRedirect() {
//	    fmt.Println(res.Redirect.Location) // https://example.com/about
//	}
//
//	origin := edge.MustNewOrigin("example.com")
//	res = origin.Transform(edge.NewRequest("/docs", "example.com"))
//	fmt.Println(res.Request.URI) // /docs/index.html
//
// # Configuration
//
// The canonical domain is passed at construction time. Settings files, the
// environment and Consul are handled by the config subpackage; the transformers
// themselves never read configuration.
//
// # Host Adapters
//
// The transformers know nothing about how a host wraps requests. Adapters live
// in subpackages:
//
//   - lambdaedge: CloudFront Lambda@Edge event envelopes.
//   - httpedge: net/http handlers and rivaas router middleware.
//
// # Extension Detection
//
// The origin transformer decides whether a path names a file by looking for an
// extension on its final segment (see [Ext]). The check is lexical, so a
// directory named "v1.2" is treated as a file and is not resolved to a default
// document.
package edge
