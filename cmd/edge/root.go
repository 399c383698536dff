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

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"rivaas.dev/logging"

	"rivaas.dev/edge/config"
)

// envPrefix selects the environment variables read as settings.
const envPrefix = "EDGE_"

// rootParams are the flags shared by every command.
type rootParams struct {
	configFile string
	consulKey  string
	logLevel   string
	logFormat  string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	params := &rootParams{}

	cmd := &cobra.Command{
		Use:           "edge",
		Short:         "Preview and inspect the edge request transformers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&params.configFile, "config", "c", "", "settings file (.yaml, .json or .toml)")
	flags.StringVar(&params.consulKey, "consul-key", "", "Consul KV key holding settings, read when CONSUL_HTTP_ADDR is set")
	flags.StringVar(&params.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&params.logFormat, "log-format", "", "log format: json, text or console")

	cmd.AddCommand(
		newServeCommand(params),
		newRewriteCommand(params),
		newConfigCommand(params),
	)
	return cmd
}

// flagSource exposes explicitly set flags as the highest-precedence
// settings source.
type flagSource map[string]any

func (s flagSource) Load(context.Context) (map[string]any, error) {
	return map[string]any(s), nil
}

func (s flagSource) String() string {
	return "flags"
}

// set records the value of flag name under the dotted settings key if the
// flag was given on the command line.
func (s flagSource) set(fs *pflag.FlagSet, name, key string) {
	f := fs.Lookup(name)
	if f == nil || !f.Changed {
		return
	}

	m := map[string]any(s)
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = f.Value.String()
}

// loadSettings merges the settings file, Consul, the environment and the
// command line, in that order of precedence from lowest to highest.
func loadSettings(cmd *cobra.Command, params *rootParams, flagKeys map[string]string) (*config.Settings, error) {
	opts := make([]config.Option, 0, 4)
	if params.configFile != "" {
		opts = append(opts, config.WithFile(params.configFile))
	}
	if params.consulKey != "" {
		opts = append(opts, config.WithConsul(params.consulKey))
	}
	opts = append(opts, config.WithEnv(envPrefix))

	src := flagSource{}
	src.set(cmd.Flags(), "log-level", "log.level")
	src.set(cmd.Flags(), "log-format", "log.format")
	for name, key := range flagKeys {
		src.set(cmd.Flags(), name, key)
	}
	opts = append(opts, config.WithSource(src))

	settings, err := config.LoadSettings(cmd.Context(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// newLogger builds the logger described by settings, writing to w.
func newLogger(settings *config.Settings, w io.Writer) (*logging.Logger, error) {
	levels := map[string]logging.Level{
		"debug": logging.LevelDebug,
		"info":  logging.LevelInfo,
		"warn":  logging.LevelWarn,
		"error": logging.LevelError,
	}
	level, ok := levels[settings.Log.Level]
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", settings.Log.Level)
	}

	opts := []logging.Option{
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithServiceName("edge"),
	}
	switch settings.Log.Format {
	case "json":
		opts = append(opts, logging.WithJSONHandler())
	case "text":
		opts = append(opts, logging.WithTextHandler())
	case "console":
		opts = append(opts, logging.WithConsoleHandler())
	default:
		return nil, fmt.Errorf("unknown log format %q", settings.Log.Format)
	}

	return logging.New(opts...)
}
