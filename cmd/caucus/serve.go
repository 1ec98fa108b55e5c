// Copyright 2026 Blink Labs Software
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
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/caucus"
	"github.com/blinklabs-io/caucus/gov"
	"github.com/blinklabs-io/caucus/internal/config"
	"github.com/spf13/cobra"
)

func serveRun(_ *cobra.Command, _ []string) {
	logger := commonRun()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		slog.Error(fmt.Sprintf("failed to load config: %s", err))
		os.Exit(1)
	}

	shutdownTimeout, err := time.ParseDuration(cfg.ShutdownTimeout)
	if err != nil {
		slog.Error(
			fmt.Sprintf(
				"invalid shutdown timeout %q: %s",
				cfg.ShutdownTimeout,
				err,
			),
		)
		os.Exit(1)
	}

	c, err := caucus.New(
		caucus.NewConfig(
			caucus.WithLogger(logger),
			caucus.WithDataDir(cfg.DataDir),
			caucus.WithApiListenAddress(
				fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.ApiPort),
			),
			caucus.WithMetricsListenAddress(
				fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.MetricsPort),
			),
			caucus.WithTracing(cfg.Tracing),
			caucus.WithTracingStdout(cfg.TracingStdout),
			caucus.WithShutdownTimeout(shutdownTimeout),
			// Standalone deployments have no external weight oracle,
			// so votes carry the weights registered via this source
			caucus.WithWeightSource(gov.NewStaticWeightSource()),
		),
	)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if err := c.Run(ctx); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the governance tally service",
		Run: func(cmd *cobra.Command, args []string) {
			serveRun(cmd, args)
		},
	}
}
