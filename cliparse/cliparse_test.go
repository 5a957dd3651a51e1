// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/govhub/registry"
)

var envKeys = []string{
	"PORT", "DATABASE_URL", "DATABASE_TYPE", "JWT_SECRET", "GENESIS_FILE", "ETH_RPC_URL",
	"REDIS_URL", "REDIS_STREAM", "VOTE_WEIGHT", "ENFORCE_VOTE_WINDOW", "SYNC_INTERVAL",
}

// clearEnv blanks every variable ParseFlags reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("VOTE_WEIGHT", "balance")
	t.Setenv("ENFORCE_VOTE_WINDOW", "false")
	t.Setenv("SYNC_INTERVAL", "15s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := ParseFlags([]string{"-env", ""})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 15*time.Second, cfg.SyncInterval)
	assert.Equal(t, registry.Policy{Weight: registry.WeightBalance, EnforceWindow: false}, cfg.Policy())
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("JWT_SECRET", "s")

	cfg, err := ParseFlags([]string{"-env", ""})
	require.NoError(t, err)

	assert.Equal(t, 3318, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, time.Minute, cfg.SyncInterval)
	assert.Equal(t, registry.DefaultPolicy(), cfg.Policy())
	assert.Empty(t, cfg.EthRPCURL)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("VOTE_WEIGHT", "balance")

	cfg, err := ParseFlags([]string{"-env", "", "-p", "8080", "-d", "file:test.db", "-jwt-secret", "s1", "-vote-weight", "flat", "-g", "genesis.yaml"})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port, "CLI should override env")
	assert.Equal(t, registry.WeightFlat, cfg.VoteWeight)
	assert.Equal(t, "genesis.yaml", cfg.GenesisPath)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database", map[string]string{"JWT_SECRET": "s"}, nil},
		{"missing secret", map[string]string{"DATABASE_URL": "x"}, nil},
		{"bad port", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s", "PORT": "abc"}, nil},
		{"bad database type", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s", "DATABASE_TYPE": "mysql"}, nil},
		{"bad vote weight", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s"}, []string{"-vote-weight", "quadratic"}},
		{"bad window flag", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s", "ENFORCE_VOTE_WINDOW": "maybe"}, nil},
		{"bad sync interval", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s", "SYNC_INTERVAL": "soon"}, nil},
		{"unknown flag", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s"}, []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(append([]string{"-env", ""}, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestParseFlags_DotEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL=file:dotenv.db\nJWT_SECRET=from-file\nPORT=1111\n"), 0o600))

	cfg, err := ParseFlags([]string{"-env", path})
	require.NoError(t, err)

	assert.Equal(t, "file:dotenv.db", cfg.DatabaseURL)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 7000, cfg.Port, "the environment wins over the file")
}

func TestParseFlags_MissingDotEnvIsFine(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "x")
	t.Setenv("JWT_SECRET", "s")

	_, err := ParseFlags([]string{"-env", filepath.Join(t.TempDir(), "absent.env")})
	assert.NoError(t, err)
}

func TestParseTokenFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := ParseTokenFlags([]string{"-addr", "0x00000000000000000000000000000000000000a1", "-ttl", "2h"})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xa1"), cfg.Addr)
	assert.Equal(t, 2*time.Hour, cfg.TTL)
	assert.Equal(t, "from-env", cfg.JWTSecret)

	cfg, err = ParseTokenFlags([]string{"-addr", "0x00000000000000000000000000000000000000a1", "-jwt-secret", "cli"})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.TTL)
	assert.Equal(t, "cli", cfg.JWTSecret)

	for name, args := range map[string][]string{
		"missing addr": {},
		"bad addr":     {"-addr", "alice"},
		"zero addr":    {"-addr", "0x0000000000000000000000000000000000000000"},
		"negative ttl": {"-addr", "0x00000000000000000000000000000000000000a1", "-ttl", "-1h"},
	} {
		_, err := ParseTokenFlags(args)
		assert.Error(t, err, name)
	}

	os.Unsetenv("JWT_SECRET")
	_, err = ParseTokenFlags([]string{"-addr", "0x00000000000000000000000000000000000000a1"})
	assert.EqualError(t, err, "JWT_SECRET required")
}
