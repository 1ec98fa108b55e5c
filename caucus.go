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

package caucus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/blinklabs-io/caucus/api"
	"github.com/blinklabs-io/caucus/database"
	"github.com/blinklabs-io/caucus/event"
	"github.com/blinklabs-io/caucus/gov"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Caucus wires the vote-tallying engine together with its persistence,
// event bus, and listeners.
type Caucus struct {
	config        Config
	logger        *slog.Logger
	eventBus      *event.EventBus
	db            *database.Database
	governor      *gov.Governor
	apiServer     *api.Api
	metricsServer *http.Server
	shutdownFuncs []func(context.Context) error
	done          chan struct{}
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Caucus, error) {
	c := &Caucus{
		config: cfg,
		done:   make(chan struct{}),
	}
	if cfg.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		c.logger = cfg.logger
	}
	c.eventBus = event.NewEventBus(cfg.promRegistry, c.logger)
	return c, nil
}

// Run starts the service and blocks until the context is cancelled or
// Stop is called.
func (c *Caucus) Run(ctx context.Context) error {
	// Configure tracing
	if c.config.tracing {
		if err := c.setupTracing(ctx); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(&database.Config{
		DataDir:      c.config.dataDir,
		Logger:       c.logger,
		PromRegistry: c.config.promRegistry,
		Tracing:      c.config.tracing,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db
	// Load governor and restore persisted state
	c.governor = gov.NewGovernor(gov.GovernorConfig{
		Logger:       c.logger,
		EventBus:     c.eventBus,
		PromRegistry: c.config.promRegistry,
		Database:     c.db,
		Weights:      c.config.weightSource,
		Lifecycle:    c.config.lifecycleSource,
		Executor:     c.config.executor,
	})
	if err := c.governor.Restore(); err != nil {
		return fmt.Errorf("failed to restore governor state: %w", err)
	}
	// Start governance API listener
	if c.config.apiListenAddress != "" {
		c.apiServer = api.New(
			api.ApiConfig{
				ListenAddress: c.config.apiListenAddress,
			},
			c.governor,
			c.logger,
		)
		if err := c.apiServer.Start(ctx); err != nil {
			return err
		}
		c.shutdownFuncs = append(c.shutdownFuncs, c.apiServer.Stop)
	}
	// Start metrics listener
	if c.config.metricsListenAddress != "" {
		if err := c.startMetricsListener(); err != nil {
			return err
		}
	}
	select {
	case <-ctx.Done():
	case <-c.done:
	}
	return c.shutdown()
}

// Governor returns the underlying vote-tallying engine.
func (c *Caucus) Governor() *gov.Governor {
	return c.governor
}

// EventBus returns the event bus.
func (c *Caucus) EventBus() *event.EventBus {
	return c.eventBus
}

// Stop initiates a graceful shutdown.
func (c *Caucus) Stop() {
	c.shutdownOnce.Do(func() {
		close(c.done)
	})
}

func (c *Caucus) startMetricsListener() error {
	registry, ok := c.config.promRegistry.(prometheus.Gatherer)
	if !ok {
		return errors.New(
			"metrics listener requires a gatherer prometheus registry",
		)
	}
	mux := http.NewServeMux()
	mux.Handle(
		"/metrics",
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	server := &http.Server{
		Addr:              c.config.metricsListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
	}
	c.metricsServer = server
	go func() {
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			c.logger.Error(
				"metrics listener error",
				"component", "caucus",
				"error", err,
			)
		}
	}()
	c.logger.Info(
		"metrics listener started on " + c.config.metricsListenAddress,
	)
	c.shutdownFuncs = append(c.shutdownFuncs, server.Shutdown)
	return nil
}

func (c *Caucus) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		c.config.shutdownTimeout,
	)
	defer cancel()
	var retErr error
	for _, shutdownFunc := range c.shutdownFuncs {
		if err := shutdownFunc(shutdownCtx); err != nil && retErr == nil {
			retErr = err
		}
	}
	c.eventBus.Stop()
	if c.db != nil {
		if err := c.db.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}
	return retErr
}
