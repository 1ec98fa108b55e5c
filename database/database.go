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

package database

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/caucus/database/models"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Config is the database configuration.
type Config struct {
	DataDir      string
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	Tracing      bool
}

// Database provides persistent storage for proposals and their votes.
// Uses an in-memory SQLite database when no data directory is
// configured, useful for testing and dev mode.
type Database struct {
	db     *gorm.DB
	logger *slog.Logger
}

// New opens the database, configures tracing, and migrates the table
// schemas.
func New(config *Config) (*Database, error) {
	if config == nil {
		config = &Config{}
	}
	var gormDb *gorm.DB
	var err error
	if config.DataDir == "" {
		// cache=shared allows multiple connections to share the same in-memory database
		gormDb, err = gorm.Open(
			sqlite.Open("file::memory:?cache=shared"),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(config.DataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(config.DataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		dbPath := filepath.Join(config.DataDir, "caucus.sqlite")
		// WAL journal mode, disable sync on write
		connOpts := "_pragma=journal_mode(WAL)&_pragma=sync(OFF)"
		gormDb, err = gorm.Open(
			sqlite.Open(fmt.Sprintf("file:%s?%s", dbPath, connOpts)),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	}
	d := &Database{
		db:     gormDb,
		logger: config.Logger,
	}
	if d.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if config.Tracing {
		if err := d.db.Use(
			tracing.NewPlugin(tracing.WithoutMetrics()),
		); err != nil {
			return nil, fmt.Errorf("configure database tracing: %w", err)
		}
	}
	for _, model := range models.MigrateModels {
		d.logger.Debug(
			fmt.Sprintf("creating table: %#v", model),
			"component", "database",
		)
		if err := d.db.AutoMigrate(model); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// DB returns the underlying gorm handle.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	sqlDb, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}
