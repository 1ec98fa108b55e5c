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
	"log/slog"
	"time"

	"github.com/blinklabs-io/caucus/gov"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultShutdownTimeout = 30 * time.Second

type Config struct {
	promRegistry         prometheus.Registerer
	logger               *slog.Logger
	weightSource         gov.WeightSource
	lifecycleSource      gov.LifecycleSource
	executor             gov.Executor
	dataDir              string
	apiListenAddress     string
	metricsListenAddress string
	shutdownTimeout      time.Duration
	tracing              bool
	tracingStdout        bool
}

type ConfigOptionFunc func(*Config)

// NewConfig creates a new config with the given options applied on top
// of the defaults.
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		promRegistry:    prometheus.NewRegistry(),
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use. Defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithPromRegistry specifies the prometheus registry for metrics
func WithPromRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithDataDir specifies the database directory. An empty value selects
// an in-memory database
func WithDataDir(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithApiListenAddress specifies the governance API listen address.
// An empty value disables the API listener
func WithApiListenAddress(address string) ConfigOptionFunc {
	return func(c *Config) {
		c.apiListenAddress = address
	}
}

// WithMetricsListenAddress specifies the prometheus metrics listen
// address. An empty value disables the metrics listener
func WithMetricsListenAddress(address string) ConfigOptionFunc {
	return func(c *Config) {
		c.metricsListenAddress = address
	}
}

// WithWeightSource specifies the per-voter weight lookup used when
// counting votes
func WithWeightSource(source gov.WeightSource) ConfigOptionFunc {
	return func(c *Config) {
		c.weightSource = source
	}
}

// WithLifecycleSource specifies the lifecycle gate consulted before
// queueing or executing a proposal
func WithLifecycleSource(source gov.LifecycleSource) ConfigOptionFunc {
	return func(c *Config) {
		c.lifecycleSource = source
	}
}

// WithExecutor specifies the action executor invoked with the winning
// bundle
func WithExecutor(executor gov.Executor) ConfigOptionFunc {
	return func(c *Config) {
		c.executor = executor
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s)
// endpoint using OTLP. This can be configured using the OTEL_EXPORTER_OTLP_*
// env vars documented in the README for
// [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires
// tracing to be enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
