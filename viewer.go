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

import "fmt"

// Viewer rewrites requests as they arrive from the client, before cache lookup.
// A Viewer is immutable and safe for concurrent use.
type Viewer struct {
	domain string
}

// NewViewer returns a viewer transformer for the canonical domain.
//
// Errors:
//   - [ErrEmptyDomain] if domain is empty
//   - [ErrInvalidDomain] if domain carries a scheme, path, query, fragment or user info
func NewViewer(domain string, opts ...Option) (*Viewer, error) {
	if err := validateDomain(domain); err != nil {
		return nil, err
	}
	if err := applyOptions(opts).validate(); err != nil {
		return nil, err
	}
	return &Viewer{domain: domain}, nil
}

// MustNewViewer is like [NewViewer] but panics on error.
// Use it in main() or initialization code.
func MustNewViewer(domain string, opts ...Option) *Viewer {
	v, err := NewViewer(domain, opts...)
	if err != nil {
		panic(fmt.Sprintf("edge: failed to create viewer transformer: %v", err))
	}
	return v
}

// Domain returns the canonical domain.
func (v *Viewer) Domain() string {
	return v.domain
}

// Transform applies the viewer rules in order, first match wins:
//
//  1. A host other than the canonical domain is redirected to
//     https://{domain}{uri} ("Redirecting to apex domain").
//  2. A path other than "/" ending in "/" is redirected to the same path
//     without that slash ("Moved permanently").
//  3. Anything else passes through unchanged.
func (v *Viewer) Transform(req Request) Result {
	if req.Host() != v.domain {
		return redirect(newRedirect(v.domain, req.URI, DescriptionApexDomain))
	}

	if hasTrailingSlash(req.URI) {
		return redirect(trailingSlashRedirect(v.domain, req.URI))
	}

	return pass(req)
}
