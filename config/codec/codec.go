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

// Package codec turns settings documents into generic maps and back.
//
// Built-in formats register themselves at init time:
//
//   - [TypeYAML] (github.com/goccy/go-yaml)
//   - [TypeTOML] (github.com/BurntSushi/toml)
//   - [TypeJSON] (encoding/json)
//   - [TypeEnvVar] (KEY=VALUE lines, decode only)
package codec

import (
	"fmt"
	"sync"
)

// Type identifies a document format.
type Type string

// Encoder renders a value as a document.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder parses a document into the value pointed to by v.
// Implementations must be safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

var registry = struct {
	mu       sync.RWMutex
	encoders map[Type]Encoder
	decoders map[Type]Decoder
}{
	encoders: make(map[Type]Encoder),
	decoders: make(map[Type]Decoder),
}

// RegisterEncoder makes an encoder available under name, replacing any
// encoder registered before.
func RegisterEncoder(name Type, encoder Encoder) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.encoders[name] = encoder
}

// RegisterDecoder makes a decoder available under name, replacing any
// decoder registered before.
func RegisterDecoder(name Type, decoder Decoder) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.decoders[name] = decoder
}

// GetEncoder returns the encoder registered under name.
func GetEncoder(name Type) (Encoder, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	encoder, ok := registry.encoders[name]
	if !ok {
		return nil, fmt.Errorf("encoder not found for type: %s", name)
	}
	return encoder, nil
}

// GetDecoder returns the decoder registered under name.
func GetDecoder(name Type) (Decoder, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	decoder, ok := registry.decoders[name]
	if !ok {
		return nil, fmt.Errorf("decoder not found for type: %s", name)
	}
	return decoder, nil
}
