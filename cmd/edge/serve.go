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
	"github.com/spf13/cobra"

	"rivaas.dev/edge/preview"
)

func newServeCommand(params *rootParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a site locally behind the viewer and origin transformers",
		Long: `Serve files from server.root behind the viewer and origin transformers.

Requests whose Host header is not the canonical domain are redirected to it,
so set --domain to the address you browse (for example localhost:8080) when
previewing without a hosts-file entry.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(cmd, params, map[string]string{
				"domain": "domain",
				"index":  "index",
				"addr":   "server.addr",
				"root":   "server.root",
				"grace":  "server.grace",
			})
			if err != nil {
				return err
			}

			logger, err := newLogger(settings, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			srv, err := preview.NewServer(settings, preview.WithLogger(logger))
			if err != nil {
				return err
			}
			logger.Info("serving preview",
				"domain", settings.Domain,
				"root", settings.Server.Root,
				"addr", settings.Server.Addr,
			)
			return srv.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String("domain", "", "canonical domain")
	flags.String("index", "", "default document (default index.html)")
	flags.String("addr", "", "listen address (default :8080)")
	flags.String("root", "", "directory to serve (default ./public)")
	flags.Duration("grace", 0, "shutdown grace period (default 10s)")
	return cmd
}
