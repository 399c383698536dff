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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected string
	}{
		{"/", ""},
		{"", ""},
		{"/docs", ""},
		{"/docs/guide.html", ".html"},
		{"/archive.tar.gz", ".gz"},
		{"/.well-known", ""},
		{"/.config.json", ".json"},
		{"/..foo", ".foo"},
		{"/notes.", "."},
		{"/x..", "."},
		{"/.", ""},
		{"/..", ""},
		{"/v1.2", ".2"},
		{"/v1.2/docs", ""},
		{"/docs/guide.html/", ".html"},
		{"index.html", ".html"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Ext(tt.path))
		})
	}
}

func FuzzExt(f *testing.F) {
	for _, seed := range []string{"/", "/docs", "/a.b", "/.x", "/..", "/a/b.c/"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, p string) {
		ext := Ext(p)
		if ext == "" {
			return
		}
		if ext[0] != '.' {
			t.Fatalf("Ext(%q) = %q, want leading dot", p, ext)
		}
		for i := 0; i < len(ext); i++ {
			if ext[i] == '/' {
				t.Fatalf("Ext(%q) = %q, contains a slash", p, ext)
			}
		}
	})
}
