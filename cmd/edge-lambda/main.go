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

// Command edge-lambda is the Lambda@Edge function for both the
// viewer-request and origin-request triggers.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"rivaas.dev/logging"

	"rivaas.dev/edge/config"
	"rivaas.dev/edge/config/codec"
	"rivaas.dev/edge/lambdaedge"
)

//go:embed edge.yaml
var settingsDocument []byte

func main() {
	d, err := newDispatcher(context.Background(), os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "edge-lambda:", err)
		os.Exit(1)
	}
	lambda.Start(d.Handle)
}

// newDispatcher loads the embedded settings, letting EDGE_* variables
// override them where the runtime provides any, and wires both handlers.
func newDispatcher(ctx context.Context, w io.Writer) (*lambdaedge.Dispatcher, error) {
	settings, err := config.LoadSettings(ctx,
		config.WithContent(settingsDocument, codec.TypeYAML),
		config.WithEnv("EDGE_"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var level logging.Level
	if err = level.UnmarshalText([]byte(settings.Log.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger, err := logging.New(
		logging.WithJSONHandler(),
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithServiceName("edge-lambda"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	viewer, err := settings.Viewer()
	if err != nil {
		return nil, err
	}
	origin, err := settings.Origin()
	if err != nil {
		return nil, err
	}

	return lambdaedge.NewDispatcher([]*lambdaedge.Handler{
		lambdaedge.NewViewerHandler(viewer, lambdaedge.WithLogger(logger)),
		lambdaedge.NewOriginHandler(origin, lambdaedge.WithLogger(logger)),
	}, lambdaedge.WithLogger(logger))
}
