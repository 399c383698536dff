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

// Ext returns the extension of the final segment of a slash-separated path:
// the suffix starting at the segment's last dot.
//
// Unlike [path.Ext], a dot that only leads the segment does not start an
// extension, so dot-files have none:
//
//	Ext("/docs/guide.html") == ".html"
//	Ext("/docs")            == ""
//	Ext("/.well-known")     == ""
//	Ext("/archive.tar.gz")  == ".gz"
//	Ext("/notes.")          == "."
//	Ext("/v1.2")            == ".2"
//
// Trailing slashes are ignored when locating the final segment.
func Ext(p string) string {
	p = strings.TrimRight(p, "/")
	base := p[strings.LastIndexByte(p, '/')+1:]

	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 || base == ".." {
		return ""
	}
	return base[dot:]
}
