package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/govhub/auth"
	"github.com/danielhkuo/govhub/cliparse"
	"github.com/danielhkuo/govhub/content"
	"github.com/danielhkuo/govhub/db"
	"github.com/danielhkuo/govhub/events"
	"github.com/danielhkuo/govhub/genesis"
	"github.com/danielhkuo/govhub/ledger"
	"github.com/danielhkuo/govhub/middleware"
	"github.com/danielhkuo/govhub/oracle"
	"github.com/danielhkuo/govhub/registry"
	"github.com/danielhkuo/govhub/router"
)

// redisStreamMaxLen bounds the event stream.
const redisStreamMaxLen = 100_000

func main() {
	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := issueToken(os.Args[2:]); err != nil {
			slog.Error("Error issuing token", "error", err)
			os.Exit(1)
		}
		return
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliparse.Config) error {
	dbConn, err := db.Connect(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.CreateSchema(ctx, dbConn); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	var gen *genesis.Genesis
	if cfg.GenesisPath != "" {
		if gen, err = genesis.Load(cfg.GenesisPath); err != nil {
			return err
		}
	}

	tokens, closeOracle, err := openOracle(ctx, cfg, gen)
	if err != nil {
		return err
	}
	defer closeOracle()

	var pub events.Publisher = events.Discard{}
	if cfg.RedisURL != "" {
		redisPub, err := events.NewRedisPublisher(ctx, cfg.RedisURL, cfg.RedisStream, redisStreamMaxLen)
		if err != nil {
			return err
		}
		defer redisPub.Close()
		pub = redisPub
		slog.Info("Publishing events to redis stream")
	}

	var genesisConfig *registry.Config
	if gen != nil {
		genesisConfig = &gen.Config
	}
	host, err := ledger.Open(ctx, db.NewStore(dbConn), genesisConfig, tokens, ledger.Options{
		Policy:    cfg.Policy(),
		Publisher: pub,
	})
	if err != nil {
		return err
	}
	hub := host.Hub()
	slog.Info("Registry ready", "registry", hub.Address.Hex(), "vote_weight", cfg.VoteWeight, "enforce_window", cfg.EnforceVoteWindow)

	if cfg.SyncInterval > 0 {
		go host.RunSync(ctx, cfg.SyncInterval)
	}

	mux := router.NewRouter(host, cfg, content.NewProcessor())

	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("Server closed")
	return nil
}

// openOracle dials the JSON-RPC endpoint when one is configured, otherwise it
// serves balances from an in-memory ledger seeded with the genesis balances.
func openOracle(ctx context.Context, cfg cliparse.Config, gen *genesis.Genesis) (registry.TokenOracle, func(), error) {
	if cfg.EthRPCURL != "" {
		rpc, err := oracle.Dial(ctx, cfg.EthRPCURL, 5*time.Second)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Token oracle: ERC-1155 over JSON-RPC")
		return rpc, rpc.Close, nil
	}

	tokens := oracle.NewLedger()
	if gen != nil {
		if err := gen.Seed(tokens); err != nil {
			return nil, nil, err
		}
	}
	slog.Warn("Token oracle: in-memory ledger, balances are not persisted")
	return tokens, func() {}, nil
}

func issueToken(args []string) error {
	cfg, err := cliparse.ParseTokenFlags(args)
	if err != nil {
		return err
	}
	token, err := auth.IssueCallerToken(cfg.Addr, []byte(cfg.JWTSecret), cfg.TTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
