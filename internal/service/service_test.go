package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/authority"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/config"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/events"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ledger"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/store"
)

var testNow = time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)

// flakyAuthority confirms transfers unless unreachable is set, in which
// case every submission has an unknown outcome.
type flakyAuthority struct {
	mu          sync.Mutex
	unreachable bool
}

func (f *flakyAuthority) setUnreachable(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unreachable = v
}

func (f *flakyAuthority) SubmitTransfer(ctx context.Context, t authority.Transfer) (authority.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unreachable {
		return authority.SubmitResult{}, context.DeadlineExceeded
	}
	return authority.SubmitResult{Success: true}, nil
}

func (f *flakyAuthority) GetBalance(ctx context.Context, address string) (int64, error) {
	return 0, nil
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type harness struct {
	svc    *Service
	engine *ledger.Engine
	repo   store.Repository
	events *recorder
}

type harnessOption func(*harnessSettings)

type harnessSettings struct {
	auth   authority.Authority
	config Config
}

func withAuthority(a authority.Authority) harnessOption {
	return func(s *harnessSettings) { s.auth = a }
}

func withConfig(mutate func(*Config)) harnessOption {
	return func(s *harnessSettings) { mutate(&s.config) }
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := NewConfig(config.NewDefault())
	require.NoError(t, err)
	return cfg
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	settings := harnessSettings{config: testConfig(t)}
	for _, opt := range opts {
		opt(&settings)
	}

	clock := func() time.Time { return testNow }
	repo := store.NewMemoryStore()
	bus := events.NewBus()
	rec := &recorder{}
	publisher := events.Fanout{bus, rec}

	engineOpts := []ledger.Option{ledger.WithClock(clock), ledger.WithPublisher(publisher)}
	if settings.auth != nil {
		engineOpts = append(engineOpts, ledger.WithAuthority(settings.auth))
	}
	engine := ledger.NewEngine(repo, engineOpts...)

	svc := NewService(Deps{
		Repo:      repo,
		Engine:    engine,
		Bus:       bus,
		Publisher: publisher,
		Clock:     clock,
	}, settings.config)

	return &harness{svc: svc, engine: engine, repo: repo, events: rec}
}

func (h *harness) fund(t *testing.T, address string, amount int64) {
	t.Helper()
	_, err := h.svc.Account.Create(context.Background(), address, amount)
	require.NoError(t, err)
}

func (h *harness) balance(t *testing.T, address string) int64 {
	t.Helper()
	b, err := h.svc.Account.Balance(address)
	require.NoError(t, err)
	return b
}

func TestNewConfig(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, int64(100), cfg.SplitEpsilon)
	assert.Equal(t, config.RemainderToCreator, cfg.RemainderPolicy)

	bad := config.NewDefault()
	bad.Split.RemainderPolicy = "last"
	_, err := NewConfig(bad)
	assert.Error(t, err)

	bad = config.NewDefault()
	bad.Split.Epsilon = "abc"
	_, err = NewConfig(bad)
	assert.Error(t, err)
}

func TestAccountServiceFormatting(t *testing.T) {
	h := newHarness(t)
	amount, err := h.svc.Account.ParseAmount("1.5")
	require.NoError(t, err)
	assert.Equal(t, int64(150000000), amount)
	assert.Equal(t, "1.50", h.svc.Account.FormatAmount(amount))
}

func TestAccountServiceRejectsEscrow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "A", 100)
	escrow := model.EscrowAddress("a1")

	_, err := h.svc.Account.Create(ctx, escrow, 0)
	assert.Error(t, err)

	_, err = h.svc.Account.Send(ctx, "A", escrow, 10, "")
	assert.ErrorIs(t, err, model.ErrNotAuthorized)
	_, err = h.svc.Account.Send(ctx, escrow, "A", 10, "")
	assert.ErrorIs(t, err, model.ErrNotAuthorized)
	_, err = h.svc.Account.Mint(ctx, escrow, 10, "")
	assert.ErrorIs(t, err, model.ErrNotAuthorized)
	assert.Equal(t, int64(100), h.balance(t, "A"))
}
