package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

func (s *Store) CreateAccount(acc *model.Account) error {
	_, err := s.db.Exec(`
        INSERT INTO accounts (address, balance, created_at)
        VALUES (?, ?, ?)
    `, acc.Address, acc.Balance, toUnix(acc.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create account '%s': %w", acc.Address, ErrAccountExists)
		}
		return fmt.Errorf("failed to executing SQL insertion : %w", err)
	}
	return nil
}

func (s *Store) GetAccount(address string) (*model.Account, error) {
	row := s.db.QueryRow("SELECT address, balance, created_at FROM accounts WHERE address = ?", address)

	acc := &model.Account{}
	var createdAt int64
	if err := row.Scan(&acc.Address, &acc.Balance, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account '%s': %w", address, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query account '%s': %w", address, err)
	}
	acc.CreatedAt = fromUnix(createdAt)

	return acc, nil
}

func (s *Store) AccountExists(address string) (bool, error) {
	var exists bool
	row := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM accounts WHERE address = ?)", address)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

func (s *Store) ListAccounts() ([]*model.Account, error) {
	rows, err := s.db.Query(`
        SELECT address, balance, created_at
        FROM accounts
        ORDER BY address
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var accounts []*model.Account
	for rows.Next() {
		acc := &model.Account{}
		var createdAt int64
		if err := rows.Scan(&acc.Address, &acc.Balance, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		acc.CreatedAt = fromUnix(createdAt)
		accounts = append(accounts, acc)
	}

	return accounts, rows.Err()
}

func (s *Store) UpdateBalance(address string, balance int64) error {
	result, err := s.db.Exec(`
        UPDATE accounts
        SET balance = ?
        WHERE address = ?
    `, balance, address)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("balance of '%s' would be %d: %w", address, balance, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return requireRow(result, "account", address)
}
