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

// Package httpedge runs the edge transformers in front of ordinary HTTP
// handlers, so a site can be previewed with the same redirects and rewrites
// the CDN applies.
//
// # Basic Usage
//
//	r := router.MustNew()
//	r.GET("/*", serveFiles)
//
//	viewer := edge.MustNewViewer("example.com")
//	origin := edge.MustNewOrigin("example.com")
//	handler := httpedge.WrapViewer(httpedge.WrapOrigin(r, origin), viewer)
//	http.ListenAndServe(":8080", handler)
//
// The request uri is the escaped URL path and the host is [http.Request.Host].
// Redirects are written as 301 with a Location header and no body. The query
// string is not carried into the Location.
//
// Use the Wrap functions rather than router middleware when the rewrite must
// happen before route matching.
package httpedge

import (
	"io"
	"net/http"
	"net/url"

	"rivaas.dev/logging"
	"rivaas.dev/router"

	"rivaas.dev/edge"
)

// Option defines functional options for the adapters.
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

// WithLogger sets the logger redirects and rewrites are reported to at debug
// level.
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

type transformFunc func(edge.Request) edge.Result

// adapter maps HTTP requests onto a transformer.
type adapter struct {
	name      string
	transform transformFunc
	logger    *logging.Logger
}

func newAdapter(name string, transform transformFunc, opts []Option) *adapter {
	return &adapter{name: name, transform: transform, logger: applyOptions(opts).logger}
}

// run applies the transformer to r. It returns the redirect to send, or the
// uri to continue with.
func (a *adapter) run(r *http.Request) (*edge.Redirect, string) {
	uri := r.URL.EscapedPath()
	if uri == "" {
		uri = "/"
	}

	result := a.transform(edge.NewRequest(uri, r.Host))
	if result.IsRedirect() {
		a.logger.Debug("edge redirect",
			"stage", a.name,
			"host", r.Host,
			"uri", uri,
			"location", result.Redirect.Location,
		)
		return result.Redirect, ""
	}

	if result.Request.URI != uri {
		a.logger.Debug("edge rewrite",
			"stage", a.name,
			"uri", uri,
			"rewritten", result.Request.URI,
		)
	}
	return nil, result.Request.URI
}

func writeRedirect(w http.ResponseWriter, rd *edge.Redirect) {
	w.Header().Set("Location", rd.Location)
	w.WriteHeader(rd.Status)
}

// setPath points u at the escaped path uri.
func setPath(u *url.URL, uri string) {
	path, err := url.PathUnescape(uri)
	if err != nil {
		u.Path = uri
		u.RawPath = ""
		return
	}
	u.Path = path
	u.RawPath = uri
}

func (a *adapter) wrap(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rd, uri := a.run(r)
		if rd != nil {
			writeRedirect(w, rd)
			return
		}
		if uri == r.URL.EscapedPath() {
			h.ServeHTTP(w, r)
			return
		}

		r2 := new(http.Request)
		*r2 = *r
		r2.URL = new(url.URL)
		*r2.URL = *r.URL
		setPath(r2.URL, uri)
		h.ServeHTTP(w, r2)
	})
}

func (a *adapter) middleware() router.HandlerFunc {
	return func(c *router.Context) {
		rd, uri := a.run(c.Request)
		if rd != nil {
			writeRedirect(c.Response, rd)
			c.Abort()
			return
		}
		if uri != c.Request.URL.EscapedPath() {
			setPath(c.Request.URL, uri)
		}
		c.Next()
	}
}

// WrapViewer wraps h with apex-domain and trailing-slash redirects.
//
// Example:
//
//	handler := httpedge.WrapViewer(r, edge.MustNewViewer("example.com"))
//	http.ListenAndServe(":8080", handler)
func WrapViewer(h http.Handler, v *edge.Viewer, opts ...Option) http.Handler {
	return newAdapter("viewer", v.Transform, opts).wrap(h)
}

// WrapOrigin wraps h with trailing-slash redirects and default-document
// rewrites. h sees the rewritten path; the caller's request is not modified.
func WrapOrigin(h http.Handler, o *edge.Origin, opts ...Option) http.Handler {
	return newAdapter("origin", o.Transform, opts).wrap(h)
}

// Viewer returns router middleware applying v.
//
// The middleware runs after route matching, so requests for hosts or paths no
// route matches never reach it. Use [WrapViewer] to cover every request.
func Viewer(v *edge.Viewer, opts ...Option) router.HandlerFunc {
	return newAdapter("viewer", v.Transform, opts).middleware()
}

// Origin returns router middleware applying o. The rewritten path is set on
// the request before the next handler runs.
func Origin(o *edge.Origin, opts ...Option) router.HandlerFunc {
	return newAdapter("origin", o.Transform, opts).middleware()
}
