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
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/blinklabs-io/caucus/gov"
	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NotNil(t, cfg.promRegistry)
	assert.Equal(t, defaultShutdownTimeout, cfg.shutdownTimeout)
	assert.Empty(t, cfg.dataDir)
	assert.Empty(t, cfg.apiListenAddress)
	assert.False(t, cfg.tracing)
}

func TestConfigOptions(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	weights := gov.NewStaticWeightSource()
	cfg := NewConfig(
		WithLogger(logger),
		WithDataDir("/var/lib/caucus"),
		WithApiListenAddress("127.0.0.1:7001"),
		WithMetricsListenAddress("127.0.0.1:12798"),
		WithWeightSource(weights),
		WithTracing(true),
		WithTracingStdout(true),
		WithShutdownTimeout(5*time.Second),
	)
	assert.Equal(t, logger, cfg.logger)
	assert.Equal(t, "/var/lib/caucus", cfg.dataDir)
	assert.Equal(t, "127.0.0.1:7001", cfg.apiListenAddress)
	assert.Equal(t, "127.0.0.1:12798", cfg.metricsListenAddress)
	assert.Equal(t, gov.WeightSource(weights), cfg.weightSource)
	assert.True(t, cfg.tracing)
	assert.True(t, cfg.tracingStdout)
	assert.Equal(t, 5*time.Second, cfg.shutdownTimeout)
}
