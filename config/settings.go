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

package config

import (
	"context"
	_ "embed"
	"fmt"
	"slices"
	"time"

	"rivaas.dev/edge"
)

//go:embed settings.schema.json
var settingsSchema []byte

// SettingsSchema returns the JSON Schema every settings document is checked
// against before binding.
func SettingsSchema() []byte {
	return slices.Clone(settingsSchema)
}

// Settings is everything an edge deployment is configured with.
//
// Keys avoid underscores so each one can also be set from the environment:
// EDGE_SERVER_ADDR sets server.addr.
type Settings struct {
	// Domain is the canonical (apex) domain. Required.
	Domain string `config:"domain"`

	// Index is the default document for directory-style paths.
	Index string `config:"index" default:"index.html"`

	Server ServerSettings `config:"server"`
	Log    LogSettings    `config:"log"`
}

// ServerSettings configure the local preview server.
type ServerSettings struct {
	Addr  string        `config:"addr" default:":8080"`
	Root  string        `config:"root" default:"./public"`
	Grace time.Duration `config:"grace" default:"10s"`
}

// LogSettings select the log level and handler.
type LogSettings struct {
	Level  string `config:"level" default:"info"`
	Format string `config:"format" default:"json"`
}

// Validate checks the settings the way the transformers will.
func (s *Settings) Validate() error {
	if _, err := s.Origin(); err != nil {
		return err
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, s.Log.Level) {
		return NewFieldError("settings", "log.level", "validate", fmt.Errorf("unknown level %q", s.Log.Level))
	}
	if !slices.Contains([]string{"json", "text", "console"}, s.Log.Format) {
		return NewFieldError("settings", "log.format", "validate", fmt.Errorf("unknown format %q", s.Log.Format))
	}
	if s.Server.Grace < 0 {
		return NewFieldError("settings", "server.grace", "validate", fmt.Errorf("negative duration %s", s.Server.Grace))
	}
	return nil
}

// Viewer builds the viewer transformer for these settings.
func (s *Settings) Viewer() (*edge.Viewer, error) {
	return edge.NewViewer(s.Domain)
}

// Origin builds the origin transformer for these settings.
func (s *Settings) Origin() (*edge.Origin, error) {
	return edge.NewOrigin(s.Domain, edge.WithDefaultDocument(s.Index))
}

// Map renders the settings with their document keys, for display.
func (s *Settings) Map() map[string]any {
	return map[string]any{
		"domain": s.Domain,
		"index":  s.Index,
		"server": map[string]any{
			"addr":  s.Server.Addr,
			"root":  s.Server.Root,
			"grace": s.Server.Grace.String(),
		},
		"log": map[string]any{
			"level":  s.Log.Level,
			"format": s.Log.Format,
		},
	}
}

// LoadSettings loads, validates and binds settings from the given sources.
// The settings schema is always applied.
//
// Example:
//
//	settings, err := config.LoadSettings(ctx,
//	    config.WithFile("edge.yaml"),
//	    config.WithConsul("edge/${EDGE_ENV}.yaml"),
//	    config.WithEnv("EDGE_"),
//	)
func LoadSettings(ctx context.Context, opts ...Option) (*Settings, error) {
	var s Settings

	opts = append(opts, WithJSONSchema(settingsSchema), WithBinding(&s))
	cfg, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err = cfg.Load(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}
