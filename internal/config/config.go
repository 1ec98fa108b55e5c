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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	BindAddr        string `yaml:"bindAddr"        split_words:"true"`
	DataDir         string `yaml:"dataDir"         split_words:"true"`
	ApiPort         uint   `yaml:"apiPort"         split_words:"true"`
	MetricsPort     uint   `yaml:"metricsPort"     split_words:"true"`
	Tracing         bool   `yaml:"tracing"`
	TracingStdout   bool   `yaml:"tracingStdout"   split_words:"true"`
	ShutdownTimeout string `yaml:"shutdownTimeout" split_words:"true"`
}

const DefaultShutdownTimeout = "30s"

var globalConfig = &Config{
	BindAddr:        "0.0.0.0",
	DataDir:         "", // in-memory database by default
	ApiPort:         7001,
	MetricsPort:     12798,
	ShutdownTimeout: DefaultShutdownTimeout,
}

// LoadConfig overlays an optional YAML config file and then environment
// variables (CAUCUS_ prefix) onto the built-in defaults.
func LoadConfig(configFile string) (*Config, error) {
	if configFile == "" {
		// Check for config file in this path: ~/.caucus/caucus.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".caucus", "caucus.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}
		// Try to check for /etc/caucus/caucus.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/caucus/caucus.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	if err := envconfig.Process("caucus", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if globalConfig.ShutdownTimeout == "" {
		globalConfig.ShutdownTimeout = DefaultShutdownTimeout
	}
	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}
