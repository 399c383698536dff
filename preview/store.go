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

package preview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	riverrors "rivaas.dev/errors"
	"rivaas.dev/router"
)

var (
	// ErrNotFound is reported for paths with no file behind them, including
	// directories.
	ErrNotFound = errors.New("no such file in origin")

	// ErrMethodNotAllowed is reported for methods other than GET and HEAD.
	ErrMethodNotAllowed = errors.New("origin only serves GET and HEAD")
)

// Store serves files from a file system the way an object-store origin does:
// a key either names a file or does not exist. Directories are never listed
// and no path is redirected, so the default-document rewrite is visible.
type Store struct {
	fsys     fs.FS
	problems *riverrors.RFC9457
}

// NewStore returns a store over fsys.
//
// Example:
//
//	store := preview.NewStore(os.DirFS("./public"))
func NewStore(fsys fs.FS) *Store {
	problems := riverrors.NewRFC9457("")
	problems.ErrorIDGenerator = uuid.NewString
	return &Store{fsys: fsys, problems: problems}
}

// ServeHTTP serves the file named by the request path.
func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		s.writeProblem(w, r, riverrors.WithStatus(ErrMethodNotAllowed, http.StatusMethodNotAllowed))
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" || !fs.ValidPath(name) {
		s.writeProblem(w, r, riverrors.WithStatus(ErrNotFound, http.StatusNotFound))
		return
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = riverrors.WithStatus(ErrNotFound, http.StatusNotFound)
		}
		s.writeProblem(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeProblem(w, r, fmt.Errorf("failed to stat %s: %w", name, err))
		return
	}
	if info.IsDir() {
		s.writeProblem(w, r, riverrors.WithStatus(ErrNotFound, http.StatusNotFound))
		return
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			s.writeProblem(w, r, fmt.Errorf("failed to read %s: %w", name, err))
			return
		}
		content = bytes.NewReader(data)
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
}

// Handle adapts the store to a router handler.
func (s *Store) Handle(c *router.Context) {
	s.ServeHTTP(c.Response, c.Request)
}

func (s *Store) writeProblem(w http.ResponseWriter, r *http.Request, err error) {
	resp := s.problems.Format(r, err)
	for k, values := range resp.Headers {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(resp.Body)
}
