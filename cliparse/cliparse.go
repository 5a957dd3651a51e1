// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/govhub/registry"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	JWTSecret    string
	GenesisPath  string
	EthRPCURL    string
	RedisURL     string
	RedisStream  string

	VoteWeight        registry.WeightPolicy
	EnforceVoteWindow bool
	SyncInterval      time.Duration
}

// Policy is the voting policy the registry runs with.
func (c Config) Policy() registry.Policy {
	return registry.Policy{Weight: c.VoteWeight, EnforceWindow: c.EnforceVoteWindow}
}

// ParseFlags validates flags and fills the rest from the environment.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, voteWeight, enforceWindow, syncInterval string

	fs := flag.NewFlagSet("govhub", flag.ContinueOnError)

	fs.StringVar(&envFile, "env", ".env", "Optional dotenv file loaded before reading the environment")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.GenesisPath, "g", "", "Genesis YAML file, required on first start")
	fs.StringVar(&cfg.EthRPCURL, "rpc", "", "Ethereum JSON-RPC URL for token balances (empty uses the in-memory ledger)")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for the event stream (empty disables publishing)")
	fs.StringVar(&cfg.RedisStream, "stream", "", "Redis stream name")

	// Voting policy
	fs.StringVar(&voteWeight, "vote-weight", "", "Vote weight policy (flat or balance)")
	fs.StringVar(&enforceWindow, "enforce-window", "", "Reject votes outside a proposal's voting window (true or false)")
	fs.StringVar(&syncInterval, "sync-interval", "", "How often proposals are advanced by their voting window (0 disables)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Caller token signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	cfg.GenesisPath = orEnv(cfg.GenesisPath, "GENESIS_FILE")
	cfg.EthRPCURL = orEnv(cfg.EthRPCURL, "ETH_RPC_URL")
	cfg.RedisURL = orEnv(cfg.RedisURL, "REDIS_URL")
	cfg.RedisStream = orEnv(cfg.RedisStream, "REDIS_STREAM")

	weight, err := registry.ParseWeightPolicy(orEnv(voteWeight, "VOTE_WEIGHT"))
	if err != nil {
		return Config{}, errors.New("invalid VOTE_WEIGHT (flat or balance)")
	}
	cfg.VoteWeight = weight

	cfg.EnforceVoteWindow = true
	if v := orEnv(enforceWindow, "ENFORCE_VOTE_WINDOW"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.New("invalid ENFORCE_VOTE_WINDOW (true or false)")
		}
		cfg.EnforceVoteWindow = b
	}

	cfg.SyncInterval = time.Minute
	if v := orEnv(syncInterval, "SYNC_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, errors.New("invalid SYNC_INTERVAL (a duration such as 30s)")
		}
		cfg.SyncInterval = d
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	return cfg, nil
}

// loadEnvFile applies a dotenv file without overriding variables that are
// already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func orEnv(v, key string) string {
	if v != "" {
		return v
	}
	return os.Getenv(key)
}

// TokenConfig holds the settings of the token subcommand.
type TokenConfig struct {
	Addr      common.Address
	TTL       time.Duration
	JWTSecret string
}

// ParseTokenFlags reads the arguments of "govhub token", which issues a
// caller token for local development.
func ParseTokenFlags(args []string) (TokenConfig, error) {
	var cfg TokenConfig
	var envFile, addr string

	fs := flag.NewFlagSet("govhub token", flag.ContinueOnError)
	fs.StringVar(&envFile, "env", ".env", "Optional dotenv file loaded before reading the environment")
	fs.StringVar(&addr, "addr", "", "Caller address the token acts for")
	fs.DurationVar(&cfg.TTL, "ttl", 24*time.Hour, "Token lifetime")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Caller token signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return TokenConfig{}, err
	}
	if err := loadEnvFile(envFile); err != nil {
		return TokenConfig{}, err
	}

	if !common.IsHexAddress(addr) || common.HexToAddress(addr) == (common.Address{}) {
		return TokenConfig{}, fmt.Errorf("invalid -addr %q", addr)
	}
	cfg.Addr = common.HexToAddress(addr)
	if cfg.TTL <= 0 {
		return TokenConfig{}, errors.New("-ttl must be positive")
	}
	cfg.JWTSecret = orEnv(cfg.JWTSecret, "JWT_SECRET")
	if cfg.JWTSecret == "" {
		return TokenConfig{}, errors.New("JWT_SECRET required")
	}
	return cfg, nil
}
