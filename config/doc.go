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

// Package config loads edge settings from files, embedded documents, the
// environment and Consul.
//
// Sources are merged in order, with later sources overriding earlier ones key
// by key. All keys are case-insensitive.
//
// # Quick Start
//
//	settings, err := config.LoadSettings(ctx,
//	    config.WithFile("edge.yaml"),
//	    config.WithEnv("EDGE_"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	viewer, _ := settings.Viewer()
//
// # Sources
//
// Files with automatic format detection:
//
//	config.WithFile("edge.yaml")   // YAML
//	config.WithFile("edge.json")   // JSON
//	config.WithFile("edge.toml")   // TOML
//
// Environment variables with prefix:
//
//	config.WithEnv("EDGE_")  // EDGE_SERVER_ADDR sets server.addr
//
// Consul key-value store, skipped when CONSUL_HTTP_ADDR is unset:
//
//	config.WithConsul("edge/production.yaml")
//
// Embedded content:
//
//	config.WithContent(data, codec.TypeYAML)
//
// # Validation
//
// [LoadSettings] checks the merged document against [SettingsSchema], then
// binds it into [Settings] and runs [Settings.Validate]. A failed Load never
// replaces previously loaded values.
//
// # Generic Use
//
// [New] and [Config.Load] work for any struct passed to [WithBinding]:
//
//	var s struct {
//	    Domain string `config:"domain"`
//	    Addr   string `config:"addr" default:":8080"`
//	}
//	cfg := config.MustNew(config.WithFile("edge.yaml"), config.WithBinding(&s))
//	cfg.MustLoad(ctx)
package config
