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

import (
	"context"
	"errors"
	"fmt"

	"rivaas.dev/logging"
)

// Dispatcher routes events to the handler registered for their
// cf.config.eventType.
type Dispatcher struct {
	handlers map[string]*Handler
	logger   *logging.Logger
}

// NewDispatcher returns a dispatcher over handlers. Options configure the
// dispatcher's own logging; handlers keep theirs.
//
// Errors are returned for nil handlers and for two handlers of the same event
// type, all of them joined.
func NewDispatcher(handlers []*Handler, opts ...Option) (*Dispatcher, error) {
	cfg := applyOptions(opts)
	d := &Dispatcher{
		handlers: make(map[string]*Handler, len(handlers)),
		logger:   cfg.logger,
	}

	var errs error
	for i, h := range handlers {
		if h == nil {
			errs = errors.Join(errs, fmt.Errorf("handler %d is nil", i))
			continue
		}
		if _, dup := d.handlers[h.eventType]; dup {
			errs = errors.Join(errs, fmt.Errorf("duplicate handler for %s", h.eventType))
			continue
		}
		d.handlers[h.eventType] = h
	}
	if errs != nil {
		return nil, errs
	}
	return d, nil
}

// MustNewDispatcher is like [NewDispatcher] but panics on error.
func MustNewDispatcher(handlers []*Handler, opts ...Option) *Dispatcher {
	d, err := NewDispatcher(handlers, opts...)
	if err != nil {
		panic(fmt.Sprintf("lambdaedge: failed to create dispatcher: %v", err))
	}
	return d
}

// Handle passes event to the handler for its event type. It has the
// signature lambda.Start expects.
//
// Errors:
//   - [ErrNoRecords] if the event has no records
//   - [ErrUnsupportedEventType] if no handler matches the event type
//   - any error returned by the handler
func (d *Dispatcher) Handle(ctx context.Context, event Event) (any, error) {
	if len(event.Records) == 0 {
		d.logger.LogError(ErrNoRecords, "edge event rejected")
		return nil, ErrNoRecords
	}

	eventType := event.Records[0].CF.Config.EventType
	h, ok := d.handlers[eventType]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnsupportedEventType, eventType)
		d.logger.LogError(err, "edge event rejected",
			"request_id", event.Records[0].CF.Config.RequestID)
		return nil, err
	}

	out, err := h.Handle(ctx, event)
	if err != nil {
		d.logger.LogError(err, "edge event failed",
			"event_type", eventType,
			"request_id", event.Records[0].CF.Config.RequestID)
		return nil, err
	}
	return out, nil
}
