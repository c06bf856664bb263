package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

const emiColumns = `id, user_address, company_address, description, total_amount, monthly_amount,
        months, months_paid, first_payment_due, next_payment_due, status, auto_pay_approved,
        auto_pay_balance, pending_hash, pending_purpose, pending_amount, created_at, updated_at`

func pendingColumns(p *model.PendingTransfer) (string, string, int64) {
	if p == nil {
		return "", "", 0
	}
	return p.Hash, string(p.Purpose), p.Amount
}

func (s *Store) CreateEmiAgreement(a *model.EmiAgreement) error {
	hash, purpose, amount := pendingColumns(a.Pending)
	_, err := s.db.Exec(`
        INSERT INTO emi_agreements (`+emiColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, a.ID, a.User, a.Company, a.Description, a.TotalAmount, a.MonthlyAmount,
		a.Months, a.MonthsPaid, toUnix(a.FirstPaymentDue), toUnix(a.NextPaymentDue), int(a.Status),
		a.AutoPayApproved, a.AutoPayBalance, hash, purpose, amount, toUnix(a.CreatedAt), toUnix(a.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("EMI agreement %s already exists: %w", a.ID, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to insert EMI agreement: %w", err)
	}
	return nil
}

func scanAgreement(row rowScanner) (*model.EmiAgreement, error) {
	a := &model.EmiAgreement{}
	var firstDue, nextDue, createdAt, updatedAt int64
	var status int
	var hash, purpose string
	var pendingAmount int64
	err := row.Scan(&a.ID, &a.User, &a.Company, &a.Description, &a.TotalAmount, &a.MonthlyAmount,
		&a.Months, &a.MonthsPaid, &firstDue, &nextDue, &status, &a.AutoPayApproved,
		&a.AutoPayBalance, &hash, &purpose, &pendingAmount, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if a.Status, err = model.ParseEmiStatus(status); err != nil {
		return nil, err
	}
	if hash != "" {
		a.Pending = &model.PendingTransfer{Hash: hash, Purpose: model.PendingPurpose(purpose), Amount: pendingAmount}
	}
	a.FirstPaymentDue = fromUnix(firstDue)
	a.NextPaymentDue = fromUnix(nextDue)
	a.CreatedAt = fromUnix(createdAt)
	a.UpdatedAt = fromUnix(updatedAt)
	return a, nil
}

func (s *Store) GetEmiAgreement(id string) (*model.EmiAgreement, error) {
	row := s.db.QueryRow(`SELECT `+emiColumns+` FROM emi_agreements WHERE id = ?`, id)

	a, err := scanAgreement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("EMI agreement %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query EMI agreement: %w", err)
	}
	return a, nil
}

func (s *Store) GetEmiAgreementByTransferHash(hash string) (*model.EmiAgreement, error) {
	row := s.db.QueryRow(`SELECT `+emiColumns+` FROM emi_agreements WHERE pending_hash = ? AND pending_hash <> ''`, hash)

	a, err := scanAgreement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("EMI agreement for transfer %s: %w", hash, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query EMI agreement: %w", err)
	}
	return a, nil
}

func (s *Store) UpdateEmiAgreement(a *model.EmiAgreement) error {
	hash, purpose, amount := pendingColumns(a.Pending)
	result, err := s.db.Exec(`
        UPDATE emi_agreements
        SET months_paid = ?, next_payment_due = ?, status = ?, auto_pay_approved = ?,
            auto_pay_balance = ?, pending_hash = ?, pending_purpose = ?, pending_amount = ?, updated_at = ?
        WHERE id = ?
    `, a.MonthsPaid, toUnix(a.NextPaymentDue), int(a.Status), a.AutoPayApproved,
		a.AutoPayBalance, hash, purpose, amount, toUnix(a.UpdatedAt), a.ID)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("EMI agreement %s: %w", a.ID, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to update EMI agreement: %w", err)
	}
	return requireRow(result, "EMI agreement", a.ID)
}

func (s *Store) ListEmiAgreementsByUser(address string) ([]*model.EmiAgreement, error) {
	return s.queryAgreements(`SELECT `+emiColumns+` FROM emi_agreements WHERE user_address = ? ORDER BY created_at DESC, id`, address)
}

func (s *Store) ListEmiAgreementsByCompany(address string) ([]*model.EmiAgreement, error) {
	return s.queryAgreements(`SELECT `+emiColumns+` FROM emi_agreements WHERE company_address = ? ORDER BY created_at DESC, id`, address)
}

func (s *Store) ListDueEmiAgreements(now time.Time) ([]*model.EmiAgreement, error) {
	return s.queryAgreements(`
        SELECT `+emiColumns+`
        FROM emi_agreements
        WHERE status = ? AND next_payment_due <= ?
        ORDER BY next_payment_due, id
    `, int(model.EmiActive), toUnix(now))
}

func (s *Store) queryAgreements(query string, args ...any) ([]*model.EmiAgreement, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query EMI agreements: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var agreements []*model.EmiAgreement
	for rows.Next() {
		a, err := scanAgreement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan EMI agreement: %w", err)
		}
		agreements = append(agreements, a)
	}

	return agreements, rows.Err()
}
