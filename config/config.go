/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads mapstore settings from a YAML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/repository"
	"gopkg.in/yaml.v3"
)

// Backends
const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendDynamoDB = "dynamodb"
)

// Environment overrides
const (
	EnvBackend      = "MAPSTORE_BACKEND"
	EnvInstance     = "MAPSTORE_INSTANCE"
	EnvLogLevel     = "MAPSTORE_LOG_LEVEL"
	EnvBoltPath     = "MAPSTORE_BOLT_PATH"
	EnvLookup       = "MAPSTORE_QUERY_LOOKUP_STRATEGY"
	EnvNamedQueries = "MAPSTORE_NAMED_QUERIES"
	EnvAccessKey    = "AWS_ACCESS_KEY"
	EnvSecretKey    = "AWS_SECRET_KEY"
	EnvRegion       = "AWS_REGION"
	EnvTable        = "AWS_DDB_TABLE"
	EnvEndpoint     = "AWS_DDB_ENDPOINT"
	EnvPageSize     = "AWS_DDB_PAGE_SIZE"
)

// Config selects and configures the map backend.
type Config struct {
	Backend      string            `yaml:"backend"`
	Instance     string            `yaml:"instance"`
	LogLevel     string            `yaml:"logLevel"`
	Bolt         Bolt              `yaml:"bolt"`
	DynamoDB     DynamoDB          `yaml:"dynamodb"`
	Repositories repository.Config `yaml:"repositories"`
}

// Bolt configures the bbolt backend. An empty path opens a temporary file.
type Bolt struct {
	Path string `yaml:"path"`
}

// DynamoDB configures the single-table DynamoDB backend.
type DynamoDB struct {
	Region       string        `yaml:"region"`
	AccessKey    string        `yaml:"accessKey"`
	SecretKey    string        `yaml:"secretKey"`
	Endpoint     string        `yaml:"endpoint"`
	Table        string        `yaml:"table"`
	PageSize     int32         `yaml:"pageSize"`
	BatchRetries int           `yaml:"batchRetries"`
	BatchBackoff time.Duration `yaml:"batchBackoff"`
}

// Default returns an in-memory configuration.
func Default() *Config {
	return &Config{
		Backend:  BackendMemory,
		Instance: "mapstore-default",
		LogLevel: "info",
		DynamoDB: DynamoDB{
			Region:       "us-east-1",
			BatchRetries: 5,
			BatchBackoff: 100 * time.Millisecond,
		},
		Repositories: repository.DefaultConfig(),
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then .env and the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(fileCfg)
	}

	// .env is optional
	_ = godotenv.Load()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile parses a YAML configuration file without applying defaults.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML configuration without applying defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Backend = normalizeBackend(cfg.Backend)
	return &cfg, nil
}

// Merge returns a copy of c with the non-zero fields of other applied.
func (c *Config) Merge(other *Config) *Config {
	out := *c
	if other == nil {
		return &out
	}

	if other.Backend != "" {
		out.Backend = other.Backend
	}
	out.Backend = normalizeBackend(out.Backend)
	if other.Instance != "" {
		out.Instance = other.Instance
	}
	if other.LogLevel != "" {
		out.LogLevel = other.LogLevel
	}
	if other.Bolt.Path != "" {
		out.Bolt.Path = other.Bolt.Path
	}

	d := other.DynamoDB
	if d.Region != "" {
		out.DynamoDB.Region = d.Region
	}
	if d.AccessKey != "" {
		out.DynamoDB.AccessKey = d.AccessKey
	}
	if d.SecretKey != "" {
		out.DynamoDB.SecretKey = d.SecretKey
	}
	if d.Endpoint != "" {
		out.DynamoDB.Endpoint = d.Endpoint
	}
	if d.Table != "" {
		out.DynamoDB.Table = d.Table
	}
	if d.PageSize != 0 {
		out.DynamoDB.PageSize = d.PageSize
	}
	if d.BatchRetries != 0 {
		out.DynamoDB.BatchRetries = d.BatchRetries
	}
	if d.BatchBackoff != 0 {
		out.DynamoDB.BatchBackoff = d.BatchBackoff
	}

	out.Repositories = out.Repositories.Merge(other.Repositories)
	return &out
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(EnvBackend, &c.Backend)
	set(EnvInstance, &c.Instance)
	set(EnvLogLevel, &c.LogLevel)
	set(EnvBoltPath, &c.Bolt.Path)
	set(EnvLookup, &c.Repositories.QueryLookupStrategy)
	set(EnvNamedQueries, &c.Repositories.NamedQueriesLocation)
	set(EnvAccessKey, &c.DynamoDB.AccessKey)
	set(EnvSecretKey, &c.DynamoDB.SecretKey)
	set(EnvRegion, &c.DynamoDB.Region)
	set(EnvTable, &c.DynamoDB.Table)
	set(EnvEndpoint, &c.DynamoDB.Endpoint)
	c.Backend = normalizeBackend(c.Backend)

	if v, ok := lookup(EnvPageSize); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return errors.NewValidationError(EnvPageSize, fmt.Sprintf("not a number: %q", v))
		}
		c.DynamoDB.PageSize = int32(n)
	}
	return nil
}

// Normalize returns a copy of c with the backend name in canonical form.
func (c *Config) Normalize() *Config {
	out := *c
	out.Backend = normalizeBackend(out.Backend)
	return &out
}

func normalizeBackend(backend string) string {
	return strings.ToLower(strings.TrimSpace(backend))
}

// Validate checks the backend and its required settings. Backend names are
// matched case-insensitively and c is left untouched.
func (c *Config) Validate() error {
	switch normalizeBackend(c.Backend) {
	case BackendMemory, BackendBolt:
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" {
			return errors.NewValidationError("dynamodb.table", "required for the dynamodb backend")
		}
		if c.DynamoDB.Region == "" {
			return errors.NewValidationError("dynamodb.region", "required for the dynamodb backend")
		}
		if c.DynamoDB.PageSize < 0 {
			return errors.NewValidationError("dynamodb.pageSize", "must not be negative")
		}
	default:
		return errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", c.Backend))
	}

	if c.Instance == "" {
		return errors.NewValidationError("instance", "must not be empty")
	}
	return c.Repositories.Validate()
}
