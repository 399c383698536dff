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

package edge

import (
	"fmt"
	"strings"
)

// Origin rewrites requests that missed the cache before they are forwarded to
// the origin store. An Origin is immutable and safe for concurrent use.
type Origin struct {
	domain          string
	defaultDocument string
}

// NewOrigin returns an origin transformer for the canonical domain.
//
// Errors:
//   - [ErrEmptyDomain] if domain is empty
//   - [ErrInvalidDomain] if domain carries a scheme, path, query, fragment or user info
//   - [ErrInvalidDefaultDocument] if [WithDefaultDocument] names more than one path segment
func NewOrigin(domain string, opts ...Option) (*Origin, error) {
	if err := validateDomain(domain); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Origin{
		domain:          domain,
		defaultDocument: cfg.defaultDocument,
	}, nil
}

// MustNewOrigin is like [NewOrigin] but panics on error.
// Use it in main() or initialization code.
func MustNewOrigin(domain string, opts ...Option) *Origin {
	o, err := NewOrigin(domain, opts...)
	if err != nil {
		panic(fmt.Sprintf("edge: failed to create origin transformer: %v", err))
	}
	return o
}

// Domain returns the canonical domain.
func (o *Origin) Domain() string {
	return o.domain
}

// DefaultDocument returns the document appended to directory-style paths.
func (o *Origin) DefaultDocument() string {
	return o.defaultDocument
}

// Transform applies the origin rules in order, first match wins:
//
//  1. A path other than "/" ending in "/" is redirected to the same path
//     without that slash ("Moved permanently").
//  2. A path whose final segment has no extension is rewritten to the default
//     document inside it: "/docs" becomes "/docs/index.html", "/" becomes
//     "/index.html".
//
// The host header is not consulted. Applying Transform to its own rewritten
// output is a no-op, since the default document has an extension.
func (o *Origin) Transform(req Request) Result {
	if hasTrailingSlash(req.URI) {
		return redirect(trailingSlashRedirect(o.domain, req.URI))
	}

	if Ext(req.URI) == "" {
		req.URI = strings.TrimSuffix(req.URI, "/") + "/" + o.defaultDocument
	}

	return pass(req)
}
