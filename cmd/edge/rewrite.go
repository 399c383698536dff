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
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/edge"
	"rivaas.dev/edge/config"
	"rivaas.dev/edge/lambdaedge"
)

func newRewriteCommand(params *rootParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Show what a transformer returns for a request",
	}
	cmd.PersistentFlags().String("domain", "", "canonical domain")
	cmd.PersistentFlags().String("host", "", "Host header (default the canonical domain)")

	cmd.AddCommand(
		newRewriteStageCommand(params, lambdaedge.EventViewerRequest, "viewer",
			func(s *config.Settings) (*lambdaedge.Handler, error) {
				v, err := s.Viewer()
				if err != nil {
					return nil, err
				}
				return lambdaedge.NewViewerHandler(v), nil
			}),
		newRewriteStageCommand(params, lambdaedge.EventOriginRequest, "origin",
			func(s *config.Settings) (*lambdaedge.Handler, error) {
				o, err := s.Origin()
				if err != nil {
					return nil, err
				}
				return lambdaedge.NewOriginHandler(o), nil
			}),
	)
	return cmd
}

func newRewriteStageCommand(
	params *rootParams,
	eventType, name string,
	build func(*config.Settings) (*lambdaedge.Handler, error),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " <uri>",
		Short: fmt.Sprintf("Run the %s transformer and print the Lambda@Edge result", name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := args[0]
			if !strings.HasPrefix(uri, "/") {
				return errors.New("uri must start with /")
			}

			settings, err := loadSettings(cmd, params, map[string]string{"domain": "domain"})
			if err != nil {
				return err
			}
			h, err := build(settings)
			if err != nil {
				return err
			}

			host, err := cmd.Flags().GetString("host")
			if err != nil {
				return err
			}
			if host == "" {
				host = settings.Domain
			}

			event, err := lambdaedge.NewEvent(eventType, edge.NewRequest(uri, host))
			if err != nil {
				return err
			}
			out, err := h.Handle(cmd.Context(), event)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	return cmd
}
