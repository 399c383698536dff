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
	"net/http"
	"strconv"
	"strings"
)

// Redirect descriptions sent with synthesized responses.
const (
	DescriptionApexDomain    = "Redirecting to apex domain"
	DescriptionTrailingSlash = "Moved permanently"
)

// scheme is the scheme of every synthesized location. Redirecting to the apex
// domain therefore also upgrades plain HTTP requests.
const scheme = "https"

// Redirect is a permanent redirect synthesized in place of a request.
type Redirect struct {
	// Status is always http.StatusMovedPermanently.
	Status int

	// Description is the human-readable reason sent as statusDescription.
	Description string

	// Location is an absolute URL: scheme, canonical domain and path.
	Location string
}

// StatusString returns the status code in the string form edge hosts expect ("301").
func (r *Redirect) StatusString() string {
	return strconv.Itoa(r.Status)
}

func newRedirect(domain, uri, description string) *Redirect {
	return &Redirect{
		Status:      http.StatusMovedPermanently,
		Description: description,
		Location:    scheme + "://" + domain + uri,
	}
}

// Result is the outcome of a transformer: either the request to continue with,
// or a redirect to send back to the client.
type Result struct {
	// Request is the request to forward. It is the zero value when Redirect is set.
	Request Request

	// Redirect is non-nil when the request must not be forwarded.
	Redirect *Redirect
}

// IsRedirect reports whether the result replaces the request with a redirect.
func (r Result) IsRedirect() bool {
	return r.Redirect != nil
}

func pass(req Request) Result {
	return Result{Request: req}
}

func redirect(rd *Redirect) Result {
	return Result{Redirect: rd}
}

// hasTrailingSlash reports whether uri is a non-root path ending in "/".
func hasTrailingSlash(uri string) bool {
	return uri != "/" && strings.HasSuffix(uri, "/")
}

// trailingSlashRedirect removes exactly one trailing slash. TrimSuffix is used
// instead of TrimRight so "/a//" becomes "/a/", not "/a".
func trailingSlashRedirect(domain, uri string) *Redirect {
	return newRedirect(domain, strings.TrimSuffix(uri, "/"), DescriptionTrailingSlash)
}
