/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/repository"
)

const sampleYAML = `
backend: dynamodb
instance: orders
logLevel: debug
dynamodb:
  region: eu-west-1
  table: mapstore
  pageSize: 50
  batchBackoff: 250ms
repositories:
  queryLookupStrategy: CREATE
`

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestParseAndMerge(t *testing.T) {
	fileCfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	got := Default().Merge(fileCfg)
	want := &Config{
		Backend:  BackendDynamoDB,
		Instance: "orders",
		LogLevel: "debug",
		DynamoDB: DynamoDB{
			Region:       "eu-west-1",
			Table:        "mapstore",
			PageSize:     50,
			BatchRetries: 5,
			BatchBackoff: 250 * time.Millisecond,
		},
		Repositories: repository.Config{QueryLookupStrategy: "CREATE"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestMergeDoesNotMutate(t *testing.T) {
	base := Default()
	_ = base.Merge(&Config{Backend: BackendBolt})
	if base.Backend != BackendMemory {
		t.Errorf("Merge mutated its receiver: %s", base.Backend)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(env(map[string]string{
		EnvBackend:   "DynamoDB",
		EnvAccessKey: "AKIA",
		EnvSecretKey: "secret",
		EnvTable:     "from-env",
		EnvPageSize:  "25",
		EnvLookup:    "use_declared_query",
		EnvRegion:    "",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.Backend != BackendDynamoDB || cfg.DynamoDB.Table != "from-env" || cfg.DynamoDB.PageSize != 25 {
		t.Errorf("environment not applied: %+v", cfg)
	}
	if cfg.DynamoDB.Region != "us-east-1" {
		t.Errorf("empty variable should not override, got region %q", cfg.DynamoDB.Region)
	}
	if cfg.DynamoDB.AccessKey != "AKIA" || cfg.DynamoDB.SecretKey != "secret" {
		t.Error("credentials not applied")
	}

	if err := Default().ApplyEnv(env(map[string]string{EnvPageSize: "many"})); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "unknown backend", modify: func(c *Config) { c.Backend = "redis" }},
		{name: "missing table", modify: func(c *Config) { c.Backend = BackendDynamoDB }},
		{name: "missing region", modify: func(c *Config) {
			c.Backend = BackendDynamoDB
			c.DynamoDB.Table = "t"
			c.DynamoDB.Region = ""
		}},
		{name: "empty instance", modify: func(c *Config) { c.Instance = "" }},
		{name: "bad lookup strategy", modify: func(c *Config) { c.Repositories.QueryLookupStrategy = "guess" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.IsValidationError(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestBackendNormalization(t *testing.T) {
	t.Run("ValidateLeavesReceiver", func(t *testing.T) {
		cfg := Default()
		cfg.Backend = "Memory"
		before := *cfg
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if diff := cmp.Diff(before, *cfg); diff != "" {
			t.Errorf("Validate changed the config (-before +after):\n%s", diff)
		}
	})

	t.Run("Parse", func(t *testing.T) {
		cfg, err := Parse([]byte("backend: BOLT\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if cfg.Backend != BackendBolt {
			t.Errorf("Expected %q, got %q", BackendBolt, cfg.Backend)
		}
	})

	t.Run("Merge", func(t *testing.T) {
		merged := Default().Merge(&Config{Backend: "Bolt"})
		if merged.Backend != BackendBolt {
			t.Errorf("Expected %q, got %q", BackendBolt, merged.Backend)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		cfg := Default()
		if err := cfg.ApplyEnv(env(map[string]string{EnvBackend: "BOLT"})); err != nil {
			t.Fatalf("ApplyEnv failed: %v", err)
		}
		if cfg.Backend != BackendBolt {
			t.Errorf("Expected %q, got %q", BackendBolt, cfg.Backend)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		cfg := &Config{Backend: " DynamoDB "}
		if got := cfg.Normalize().Backend; got != BackendDynamoDB {
			t.Errorf("Expected %q, got %q", BackendDynamoDB, got)
		}
		if cfg.Backend != " DynamoDB " {
			t.Errorf("Normalize changed the receiver: %q", cfg.Backend)
		}
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapstore.yaml")
	if err := os.WriteFile(path, []byte("backend: bolt\nbolt:\n  path: "+filepath.Join(dir, "data.db")+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(EnvBackend, "")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendBolt || cfg.LogLevel != "warn" {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for a missing file")
	}
}
