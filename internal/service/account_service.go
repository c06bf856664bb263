package service

import (
	"context"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ledger"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/utils"
)

// AccountService is the caller surface of the ledger: account creation,
// balances, direct transfers and settlement.
type AccountService struct {
	engine *ledger.Engine
	config Config
}

func NewAccountService(engine *ledger.Engine, cfg Config) *AccountService {
	return &AccountService{engine: engine, config: cfg}
}

func (as *AccountService) Create(ctx context.Context, address string, initial int64) (*model.Account, error) {
	return as.engine.EnsureAccount(ctx, address, initial)
}

func (as *AccountService) Get(address string) (*model.Account, error) {
	return as.engine.GetAccount(address)
}

func (as *AccountService) Balance(address string) (int64, error) {
	return as.engine.GetBalance(address)
}

func (as *AccountService) List() ([]*model.Account, error) {
	return as.engine.ListAccounts()
}

func (as *AccountService) History(address string, limit int) ([]*model.LedgerEntry, error) {
	return as.engine.History(address, limit)
}

func (as *AccountService) Mint(ctx context.Context, address string, amount int64, note string) (*model.Transaction, error) {
	if err := rejectEscrow(address); err != nil {
		return nil, err
	}
	return as.engine.Mint(ctx, address, amount, note)
}

func (as *AccountService) Verify(ctx context.Context, address string) (ledger.BalanceCheck, error) {
	return as.engine.VerifyBalance(ctx, address)
}

func (as *AccountService) Send(ctx context.Context, from, to string, amount int64, note string) (*model.Transaction, error) {
	if err := rejectEscrow(from, to); err != nil {
		return nil, err
	}
	return as.engine.ExecuteTransfer(ctx, from, to, amount, note)
}

func (as *AccountService) Transaction(hash string) (*model.Transaction, error) {
	return as.engine.GetTransaction(hash)
}

func (as *AccountService) Pending() ([]*model.Transaction, error) {
	return as.engine.PendingTransactions()
}

func (as *AccountService) Settle(ctx context.Context, hash string, confirmed bool) (*model.Transaction, error) {
	return as.engine.Settle(ctx, hash, confirmed)
}

func (as *AccountService) Reconcile(ctx context.Context) ([]*model.Transaction, error) {
	return as.engine.ReconcilePending(ctx)
}

// FormatAmount renders minor units in the configured currency precision.
func (as *AccountService) FormatAmount(minor int64) string {
	return utils.FormatAmount(minor, as.config.Decimals)
}

// ParseAmount converts user input into minor units.
func (as *AccountService) ParseAmount(s string) (int64, error) {
	return utils.ParseAmount(s, as.config.Decimals)
}
