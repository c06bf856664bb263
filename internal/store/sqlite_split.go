package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

// CreateBillSplit inserts the split and its participants. The caller wraps
// it in ExecTx for atomicity.
func (s *Store) CreateBillSplit(split *model.BillSplit) error {
	_, err := s.db.Exec(`
        INSERT INTO bill_splits (id, original_tx_hash, created_by, total_amount, creator_share, description, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, split.ID, split.OriginalTxHash, split.CreatedBy, split.TotalAmount, split.CreatorShare,
		split.Description, split.Status.String(), toUnix(split.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bill split %s already exists: %w", split.ID, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to insert bill split: %w", err)
	}

	return s.insertParticipants(split)
}

func (s *Store) insertParticipants(split *model.BillSplit) error {
	stmt, err := s.db.Prepare(`
        INSERT INTO bill_participants (split_id, position, address, amount, status, payment_request_id, link_error, paid_at, transaction_hash)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare participant SQL: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, p := range split.Participants {
		_, err := stmt.Exec(split.ID, i, p.Address, p.Amount, p.Status.String(), p.PaymentRequestID,
			p.LinkError, toNullUnix(p.PaidAt), p.TransactionHash)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("participant %s listed twice: %w", p.Address, ErrConstraintViolation)
			}
			return fmt.Errorf("failed to insert participant (address: %s): %w", p.Address, err)
		}
	}
	return nil
}

func (s *Store) GetBillSplit(id string) (*model.BillSplit, error) {
	split := &model.BillSplit{}
	var status string
	var createdAt int64
	err := s.db.QueryRow(`
        SELECT id, original_tx_hash, created_by, total_amount, creator_share, description, status, created_at
        FROM bill_splits
        WHERE id = ?
    `, id).Scan(&split.ID, &split.OriginalTxHash, &split.CreatedBy, &split.TotalAmount,
		&split.CreatorShare, &split.Description, &status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bill split %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query bill split: %w", err)
	}
	if split.Status, err = model.ParseSplitStatus(status); err != nil {
		return nil, err
	}
	split.CreatedAt = fromUnix(createdAt)

	if split.Participants, err = s.getParticipants(id); err != nil {
		return nil, err
	}
	return split, nil
}

func (s *Store) getParticipants(splitID string) ([]model.BillParticipant, error) {
	rows, err := s.db.Query(`
        SELECT address, amount, status, payment_request_id, link_error, paid_at, transaction_hash
        FROM bill_participants
        WHERE split_id = ?
        ORDER BY position
    `, splitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var participants []model.BillParticipant
	for rows.Next() {
		var p model.BillParticipant
		var status string
		var paidAt sql.NullInt64
		if err := rows.Scan(&p.Address, &p.Amount, &status, &p.PaymentRequestID,
			&p.LinkError, &paidAt, &p.TransactionHash); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if p.Status, err = model.ParseParticipantStatus(status); err != nil {
			return nil, err
		}
		p.PaidAt = fromNullUnix(paidAt)
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

// UpdateBillSplit rewrites the split status and every participant row.
func (s *Store) UpdateBillSplit(split *model.BillSplit) error {
	result, err := s.db.Exec(`UPDATE bill_splits SET status = ? WHERE id = ?`, split.Status.String(), split.ID)
	if err != nil {
		return fmt.Errorf("failed to update bill split: %w", err)
	}
	if err := requireRow(result, "bill split", split.ID); err != nil {
		return err
	}

	if _, err := s.db.Exec(`DELETE FROM bill_participants WHERE split_id = ?`, split.ID); err != nil {
		return fmt.Errorf("failed to reset participants: %w", err)
	}
	return s.insertParticipants(split)
}

func (s *Store) GetBillSplitByRequest(requestID string) (*model.BillSplit, error) {
	var splitID string
	err := s.db.QueryRow(`
        SELECT split_id FROM bill_participants WHERE payment_request_id = ? AND payment_request_id <> ''
    `, requestID).Scan(&splitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bill split for request %s: %w", requestID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query bill split: %w", err)
	}
	return s.GetBillSplit(splitID)
}

func (s *Store) ListBillSplitsByCreator(address string) ([]*model.BillSplit, error) {
	return s.querySplits(`SELECT id FROM bill_splits WHERE created_by = ? ORDER BY created_at DESC, id`, address)
}

func (s *Store) ListBillSplitsByParticipant(address string) ([]*model.BillSplit, error) {
	return s.querySplits(`
        SELECT b.id FROM bill_splits b
        INNER JOIN bill_participants p ON p.split_id = b.id
        WHERE p.address = ?
        ORDER BY b.created_at DESC, b.id
    `, address)
}

func (s *Store) querySplits(query string, args ...any) ([]*model.BillSplit, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bill splits: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan bill split: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// A single connection cannot serve nested queries while rows is open.
	_ = rows.Close()

	splits := make([]*model.BillSplit, 0, len(ids))
	for _, id := range ids {
		split, err := s.GetBillSplit(id)
		if err != nil {
			return nil, err
		}
		splits = append(splits, split)
	}
	return splits, nil
}
