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
	"strings"
	"unicode"
)

// DefaultDocument is the file served for directory-style paths unless
// [WithDefaultDocument] says otherwise.
const DefaultDocument = "index.html"

// Option configures a transformer.
type Option func(*config)

type config struct {
	defaultDocument string
}

func defaultConfig() *config {
	return &config{
		defaultDocument: DefaultDocument,
	}
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return cfg
}

// WithDefaultDocument sets the document appended to directory-style paths by
// the origin transformer. The name must be a single path segment with an
// extension, so a rewritten path is never rewritten again.
//
// Default: "index.html"
//
// Example:
//
//	origin := edge.MustNewOrigin("example.com", edge.WithDefaultDocument("default.htm"))
//
// The viewer transformer ignores this option.
func WithDefaultDocument(name string) Option {
	return func(c *config) {
		c.defaultDocument = name
	}
}

func (c *config) validate() error {
	name := c.defaultDocument
	if name == "" || strings.Contains(name, "/") || hasSpace(name) || Ext(name) == "" {
		return &ConfigError{Field: "default_document", Value: name, Err: ErrInvalidDefaultDocument}
	}
	return nil
}

// validateDomain checks that domain can be placed verbatim between "https://"
// and a path. A port is allowed; anything else a URL authority can carry is not.
func validateDomain(domain string) error {
	if domain == "" {
		return &ConfigError{Field: "domain", Value: domain, Err: ErrEmptyDomain}
	}
	if strings.ContainsAny(domain, "/?#@\\") || hasSpace(domain) {
		return &ConfigError{Field: "domain", Value: domain, Err: ErrInvalidDomain}
	}
	return nil
}

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
