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

import "strings"

// HeaderHost is the lower-case name under which the host header is stored.
const HeaderHost = "host"

// HeaderValue is a single header value together with the header's original
// spelling, as edge hosts report it.
type HeaderValue struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

// Headers maps lower-case header names to their values in arrival order.
type Headers map[string][]HeaderValue

// Get returns the first value of the named header, or "" if it is absent.
// The name is matched case-insensitively.
func (h Headers) Get(name string) string {
	values := h[strings.ToLower(name)]
	if len(values) == 0 {
		return ""
	}
	return values[0].Value
}

// Request is a single HTTP request as it flows through the edge.
//
// URI is the request path without the query string and always starts with "/".
type Request struct {
	URI     string
	Headers Headers
}

// NewRequest returns a request for uri with a single host header value.
func NewRequest(uri, host string) Request {
	return Request{
		URI: uri,
		Headers: Headers{
			HeaderHost: {{Key: "Host", Value: host}},
		},
	}
}

// Host returns the first value of the host header. Only the first value is
// ever consulted.
func (r Request) Host() string {
	return r.Headers.Get(HeaderHost)
}
