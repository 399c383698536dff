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

// Package preview serves a static site locally behind the same viewer and
// origin transformers the CDN runs, so redirects and default documents can be
// checked before deploying.
//
// A request passes through three stages:
//
//	viewer (apex domain, trailing slash) -> origin (default document) -> store (files)
//
// # Basic Usage
//
//	settings, err := config.LoadSettings(ctx, config.WithFile("edge.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := preview.MustNewServer(settings, preview.WithLogger(logger))
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Because the viewer stage compares the Host header with the canonical
// domain, point the domain at the preview host (for example "localhost:8080")
// or send requests with a matching Host header.
//
// Missing files and unsupported methods are answered with RFC 9457 problem
// details.
package preview
