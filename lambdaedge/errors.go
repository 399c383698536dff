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

package lambdaedge

import "errors"

var (
	// ErrNoRecords is returned for an event without records.
	ErrNoRecords = errors.New("event has no records")

	// ErrUnsupportedEventType is returned by the dispatcher for an event type
	// no handler was registered for.
	ErrUnsupportedEventType = errors.New("unsupported event type")

	// ErrMalformedRequest is returned when cf.request cannot be decoded or has
	// no uri.
	ErrMalformedRequest = errors.New("malformed request")
)
