// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/govhub/auth"
	"github.com/danielhkuo/govhub/cliparse"
	"github.com/danielhkuo/govhub/db"
	"github.com/danielhkuo/govhub/events"
	"github.com/danielhkuo/govhub/genesis"
	"github.com/danielhkuo/govhub/ledger"
	"github.com/danielhkuo/govhub/oracle"
	"github.com/danielhkuo/govhub/registry"
)

// TestSecret signs caller tokens in tests.
const TestSecret = "test-jwt-secret"

// StartTime is the host clock of a fresh Env, in unix seconds.
const StartTime = 1_700_000_000

// Well-known actors of the test genesis. Holder owns two tokens; Outsider
// owns none and holds no role.
var (
	Creator  = common.HexToAddress("0x0000000000000000000000000000000000000c01")
	Multisig = common.HexToAddress("0x0000000000000000000000000000000000000c02")
	Elected  = [registry.NumElectedAdmins]common.Address{
		common.HexToAddress("0x0000000000000000000000000000000000000e01"),
		common.HexToAddress("0x0000000000000000000000000000000000000e02"),
		common.HexToAddress("0x0000000000000000000000000000000000000e03"),
	}
	Holder   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	Outsider = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	Token    = common.HexToAddress("0x0000000000000000000000000000000000001155")
)

// Genesis is the deployment document every Env starts from. Gating is off.
const Genesis = `
creator: "0x0000000000000000000000000000000000000c01"
multisig: "0x0000000000000000000000000000000000000c02"
elected_admins:
  - "0x0000000000000000000000000000000000000e01"
  - "0x0000000000000000000000000000000000000e02"
  - "0x0000000000000000000000000000000000000e03"
token:
  contract: "0x0000000000000000000000000000000000001155"
  id: "1"
balances:
  - account: "0x00000000000000000000000000000000000000a1"
    amount: "2"
`

// Clock is a settable host clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(unix int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Unix(unix, 0)
}

// Env is a host on a fresh sqlite database.
type Env struct {
	Host   *ledger.Host
	Store  *db.Store
	Ledger *oracle.Ledger
	Events *events.Recorder
	Clock  *Clock
	Config cliparse.Config
}

// NewEnv deploys the test genesis into a sqlite database under t.TempDir().
func NewEnv(t *testing.T) *Env {
	t.Helper()
	return NewEnvWithPolicy(t, registry.DefaultPolicy())
}

// NewEnvWithPolicy is NewEnv with explicit voting rules.
func NewEnvWithPolicy(t *testing.T, policy registry.Policy) *Env {
	t.Helper()
	ctx := context.Background()

	cfg := GetTestConfig(t)
	conn, err := db.Connect(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	g, err := genesis.Parse([]byte(Genesis))
	if err != nil {
		t.Fatalf("Failed to parse genesis: %v", err)
	}
	tokens := oracle.NewLedger()
	if err := g.Seed(tokens); err != nil {
		t.Fatalf("Failed to seed balances: %v", err)
	}

	env := &Env{
		Store:  db.NewStore(conn),
		Ledger: tokens,
		Events: &events.Recorder{},
		Clock:  &Clock{},
		Config: cfg,
	}
	env.Clock.Set(StartTime)

	env.Host, err = ledger.Open(ctx, env.Store, &g.Config, tokens, ledger.Options{
		Policy:    policy,
		Publisher: env.Events,
		Clock:     env.Clock.Now,
	})
	if err != nil {
		t.Fatalf("Failed to open host: %v", err)
	}
	return env
}

// GetTestConfig returns a standard test configuration backed by a temporary sqlite file.
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	return cliparse.Config{
		Port:              3318,
		DatabaseURL:       filepath.Join(t.TempDir(), "govhub.db"),
		DatabaseType:      db.TypeSQLite,
		JWTSecret:         TestSecret,
		VoteWeight:        registry.WeightFlat,
		EnforceVoteWindow: true,
		SyncInterval:      time.Minute,
	}
}

// AuthHeader returns an Authorization header acting for addr.
func AuthHeader(t *testing.T, addr common.Address) map[string]string {
	t.Helper()
	token, err := auth.IssueCallerToken(addr, []byte(TestSecret), time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue caller token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// CreateProposal creates a proposal as author and returns its address.
func (e *Env) CreateProposal(t *testing.T, author common.Address, title string) common.Address {
	t.Helper()
	p, err := e.Host.CreateProposal(context.Background(), author, title, "# "+title+"\nAuthor: "+author.Hex()+"\n\nbody", 0, 0)
	if err != nil {
		t.Fatalf("Failed to create test proposal: %v", err)
	}
	return p
}

// MoveState moves a proposal as the multisig.
func (e *Env) MoveState(t *testing.T, p common.Address, state registry.ProposalState) {
	t.Helper()
	if err := e.Host.AdminMoveState(context.Background(), Multisig, p, state); err != nil {
		t.Fatalf("Failed to move proposal to %s: %v", state, err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
