package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

const requestColumns = `id, from_address, to_address, amount, description, created_at, status, transfer_hash, resolved_at`

func (s *Store) CreatePaymentRequest(req *model.PaymentRequest) error {
	_, err := s.db.Exec(`
        INSERT INTO payment_requests (`+requestColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, req.ID, req.From, req.To, req.Amount, req.Description, toUnix(req.CreatedAt),
		req.Status.String(), req.TransferHash, toNullUnix(req.ResolvedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("payment request %s already exists: %w", req.ID, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to insert payment request: %w", err)
	}
	return nil
}

func scanRequest(row rowScanner) (*model.PaymentRequest, error) {
	req := &model.PaymentRequest{}
	var createdAt int64
	var status string
	var resolvedAt sql.NullInt64
	err := row.Scan(&req.ID, &req.From, &req.To, &req.Amount, &req.Description,
		&createdAt, &status, &req.TransferHash, &resolvedAt)
	if err != nil {
		return nil, err
	}

	if req.Status, err = model.ParseRequestStatus(status); err != nil {
		return nil, err
	}
	req.CreatedAt = fromUnix(createdAt)
	req.ResolvedAt = fromNullUnix(resolvedAt)
	return req, nil
}

func (s *Store) GetPaymentRequest(id string) (*model.PaymentRequest, error) {
	row := s.db.QueryRow(`SELECT `+requestColumns+` FROM payment_requests WHERE id = ?`, id)

	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment request %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query payment request: %w", err)
	}
	return req, nil
}

func (s *Store) GetRequestByTransferHash(hash string) (*model.PaymentRequest, error) {
	row := s.db.QueryRow(`SELECT `+requestColumns+` FROM payment_requests WHERE transfer_hash = ? AND transfer_hash <> ''`, hash)

	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment request for transfer %s: %w", hash, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query payment request: %w", err)
	}
	return req, nil
}

func (s *Store) UpdatePaymentRequest(req *model.PaymentRequest) error {
	result, err := s.db.Exec(`
        UPDATE payment_requests
        SET status = ?, transfer_hash = ?, resolved_at = ?
        WHERE id = ?
    `, req.Status.String(), req.TransferHash, toNullUnix(req.ResolvedAt), req.ID)
	if err != nil {
		return fmt.Errorf("failed to update payment request: %w", err)
	}
	return requireRow(result, "payment request", req.ID)
}

func (s *Store) ListRequestsByPayer(address string) ([]*model.PaymentRequest, error) {
	return s.queryRequests(`SELECT `+requestColumns+` FROM payment_requests WHERE from_address = ? ORDER BY created_at DESC, id`, address)
}

func (s *Store) ListRequestsByPayee(address string) ([]*model.PaymentRequest, error) {
	return s.queryRequests(`SELECT `+requestColumns+` FROM payment_requests WHERE to_address = ? ORDER BY created_at DESC, id`, address)
}

func (s *Store) queryRequests(query string, args ...any) ([]*model.PaymentRequest, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment requests: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var requests []*model.PaymentRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}
