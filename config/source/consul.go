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

package source

import (
	"context"
	"fmt"

	"github.com/hashicorp/consul/api"

	"rivaas.dev/edge/config/codec"
)

// ConsulKV is the subset of the Consul KV API the source needs.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// Consul loads a settings document stored under a single Consul key, so a
// fleet of preview servers can share one canonical domain.
//
// The client is configured from the standard environment variables
// (CONSUL_HTTP_ADDR, CONSUL_HTTP_TOKEN, ...).
type Consul struct {
	kv        ConsulKV
	path      string
	decoder   codec.Decoder
	lastIndex uint64
}

// NewConsul returns a source for the document at path. If kv is nil the KV
// endpoint of a default Consul client is used.
func NewConsul(path string, decoder codec.Decoder, kv ConsulKV) (*Consul, error) {
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create consul client: %w", err)
		}
		kv = client.KV()
	}
	return &Consul{kv: kv, path: path, decoder: decoder}, nil
}

// Load fetches and decodes the document. A missing key yields an empty map so
// lower-precedence sources still apply.
func (c *Consul) Load(ctx context.Context) (map[string]any, error) {
	pair, meta, err := c.kv.Get(c.path, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get consul key %q: %w", c.path, err)
	}
	if meta != nil {
		c.lastIndex = meta.LastIndex
	}
	if pair == nil {
		return map[string]any{}, nil
	}

	var conf map[string]any
	if err := c.decoder.Decode(pair.Value, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode consul value: %w", err)
	}
	return conf, nil
}

// LastIndex returns the Consul index observed by the most recent Load.
func (c *Consul) LastIndex() uint64 {
	return c.lastIndex
}

func (c *Consul) String() string {
	return "consul:" + c.path
}
