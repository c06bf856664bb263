package ledger

import (
	"errors"
	"fmt"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/store"
)

// AccountStore applies balance changes to the accounts of one repository
// view. It never locks; the Engine does that before handing it out.
type AccountStore struct {
	repo store.AccountRepository
}

func NewAccountStore(repo store.AccountRepository) AccountStore {
	return AccountStore{repo: repo}
}

// GetBalance returns 0 for addresses that have no account.
func (a AccountStore) GetBalance(address string) (int64, error) {
	acc, err := a.repo.GetAccount(address)
	if errors.Is(err, model.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (a AccountStore) Credit(address string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("credit %d: %w", amount, model.ErrInvalidAmount)
	}
	acc, err := a.repo.GetAccount(address)
	if err != nil {
		return fmt.Errorf("credit %s: %w", address, err)
	}
	return a.repo.UpdateBalance(address, acc.Balance+amount)
}

func (a AccountStore) Debit(address string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("debit %d: %w", amount, model.ErrInvalidAmount)
	}
	acc, err := a.repo.GetAccount(address)
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("%s has no funds: %w", address, model.ErrInsufficientBalance)
	}
	if err != nil {
		return fmt.Errorf("debit %s: %w", address, err)
	}
	if acc.Balance < amount {
		return fmt.Errorf("%s holds %d, needs %d: %w", address, acc.Balance, amount, model.ErrInsufficientBalance)
	}
	return a.repo.UpdateBalance(address, acc.Balance-amount)
}

// Transfer debits before crediting, so a self-transfer still requires the
// balance to cover the amount.
func (a AccountStore) Transfer(from, to string, amount int64) error {
	if err := a.Debit(from, amount); err != nil {
		return err
	}
	return a.Credit(to, amount)
}
