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
	"errors"
	"fmt"
)

// Construction errors. Transformers themselves never fail.
var (
	ErrEmptyDomain            = errors.New("canonical domain is empty")
	ErrInvalidDomain          = errors.New("canonical domain must be a bare host name")
	ErrInvalidDefaultDocument = errors.New("default document must be a file name with an extension")
)

// ConfigError reports an invalid transformer setting.
type ConfigError struct {
	Field string // setting that failed ("domain", "default_document")
	Value string // offending value
	Err   error  // one of the Err* sentinels
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("edge: invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
