package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

func (s *Store) CreateTransaction(tx *model.Transaction) error {
	_, err := s.db.Exec(`
        INSERT INTO transactions (hash, from_address, to_address, amount, timestamp, status, note, external)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, tx.Hash, tx.From, tx.To, tx.Amount, toUnix(tx.Timestamp), tx.Status.String(), tx.Note, tx.External)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %s already exists: %w", tx.Hash, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

const transactionColumns = `hash, from_address, to_address, amount, timestamp, status, note, external`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner, extra ...any) (*model.Transaction, error) {
	tx := &model.Transaction{}
	var ts int64
	var status string
	dest := append([]any{&tx.Hash, &tx.From, &tx.To, &tx.Amount, &ts, &status, &tx.Note, &tx.External}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	st, err := model.ParseTxStatus(status)
	if err != nil {
		return nil, err
	}
	tx.Status = st
	tx.Timestamp = fromUnix(ts)
	return tx, nil
}

func (s *Store) GetTransaction(hash string) (*model.Transaction, error) {
	row := s.db.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE hash = ?`, hash)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", hash, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return tx, nil
}

// UpdateTransactionStatus only moves a pending transaction; settled records
// are immutable.
func (s *Store) UpdateTransactionStatus(hash string, status model.TxStatus) error {
	result, err := s.db.Exec(`
        UPDATE transactions
        SET status = ?
        WHERE hash = ? AND status = ?
    `, status.String(), hash, model.TxPending.String())
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	return requireRow(result, "pending transaction", hash)
}

func (s *Store) ListTransactionsByStatus(status model.TxStatus) ([]*model.Transaction, error) {
	rows, err := s.db.Query(`
        SELECT `+transactionColumns+`
        FROM transactions
        WHERE status = ?
        ORDER BY timestamp, hash
    `, status.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var transactions []*model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func (s *Store) AppendLedgerEntry(address, hash string, kind model.TxKind) error {
	_, err := s.db.Exec(`
        INSERT INTO ledger_entries (address, tx_hash, kind)
        VALUES (?, ?, ?)
    `, address, hash, kind.String())
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("transaction %s: %w", hash, ErrRecordNotFound)
		}
		return fmt.Errorf("failed to insert ledger entry (address: %s): %w", address, err)
	}
	return nil
}

func (s *Store) GetLedgerEntries(address string, limit int) ([]*model.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(`
        SELECT t.hash, t.from_address, t.to_address, t.amount, t.timestamp, t.status, t.note, t.external,
               e.seq, e.address, e.kind
        FROM ledger_entries e
        INNER JOIN transactions t ON t.hash = e.tx_hash
        WHERE e.address = ?
        ORDER BY e.seq DESC
        LIMIT ?
    `, address, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []*model.LedgerEntry
	for rows.Next() {
		entry := &model.LedgerEntry{}
		var kind string
		tx, err := scanTransaction(rows, &entry.Seq, &entry.Address, &kind)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if entry.Kind, err = model.ParseTxKind(kind); err != nil {
			return nil, err
		}
		entry.Transaction = *tx
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
