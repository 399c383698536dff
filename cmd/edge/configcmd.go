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
	"fmt"

	"github.com/spf13/cobra"

	"rivaas.dev/edge/config"
	"rivaas.dev/edge/config/codec"
)

func newConfigCommand(params *rootParams) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings",
		Long: `Print the settings after merging the settings file, Consul, EDGE_*
environment variables and flags.

Use --schema to print the JSON Schema settings are validated against.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if schema, _ := cmd.Flags().GetBool("schema"); schema {
				_, err := cmd.OutOrStdout().Write(config.SettingsSchema())
				return err
			}

			encoder, err := codec.GetEncoder(codec.Type(format))
			if err != nil {
				return fmt.Errorf("unsupported format %q: %w", format, err)
			}

			settings, err := loadSettings(cmd, params, map[string]string{"domain": "domain"})
			if err != nil {
				return err
			}

			data, err := encoder.Encode(settings.Map())
			if err != nil {
				return fmt.Errorf("failed to encode settings: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", string(codec.TypeYAML), "output format: yaml, json or toml")
	flags.String("domain", "", "canonical domain")
	flags.Bool("schema", false, "print the settings JSON Schema instead")
	return cmd
}
