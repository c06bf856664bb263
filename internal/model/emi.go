package model

import (
	"fmt"
	"time"
)

// EmiStatus values match the on-chain contract codes.
type EmiStatus int

const (
	EmiActive    EmiStatus = 0
	EmiCompleted EmiStatus = 1
	EmiDefaulted EmiStatus = 2
)

func (s EmiStatus) String() string {
	switch s {
	case EmiActive:
		return "Active"
	case EmiCompleted:
		return "Completed"
	case EmiDefaulted:
		return "Defaulted"
	default:
		return fmt.Sprintf("EmiStatus(%d)", int(s))
	}
}

func ParseEmiStatus(code int) (EmiStatus, error) {
	switch EmiStatus(code) {
	case EmiActive, EmiCompleted, EmiDefaulted:
		return EmiStatus(code), nil
	default:
		return 0, fmt.Errorf("unknown EMI status code %d", code)
	}
}

// PendingPurpose names what an unsettled EMI transfer was for.
type PendingPurpose string

const (
	PurposeDeposit    PendingPurpose = "deposit"
	PurposeAutoDebit  PendingPurpose = "auto_debit"
	PurposeManual     PendingPurpose = "manual"
	PurposeWithdrawal PendingPurpose = "withdrawal"
)

type PendingTransfer struct {
	Hash    string
	Purpose PendingPurpose
	Amount  int64
}

// EmiAgreement is an installment contract between a user and a company.
// AutoPayBalance mirrors the balance of the agreement's escrow account.
type EmiAgreement struct {
	ID              string
	User            string
	Company         string
	Description     string
	TotalAmount     int64
	MonthlyAmount   int64
	Months          int
	MonthsPaid      int
	FirstPaymentDue time.Time
	NextPaymentDue  time.Time
	Status          EmiStatus
	AutoPayApproved bool
	AutoPayBalance  int64
	Pending         *PendingTransfer
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a *EmiAgreement) IsTerminal() bool {
	switch a.Status {
	case EmiCompleted, EmiDefaulted:
		return true
	case EmiActive:
		return false
	default:
		panic(fmt.Sprintf("unhandled EMI status %d", a.Status))
	}
}

func (a *EmiAgreement) EscrowAddress() string {
	return EscrowAddress(a.ID)
}

func (a *EmiAgreement) RemainingAmount() int64 {
	return int64(a.Months-a.MonthsPaid) * a.MonthlyAmount
}

// RecordInstallment counts one paid installment and moves the due date to
// the next month of the schedule.
func (a *EmiAgreement) RecordInstallment() {
	a.MonthsPaid++
	a.NextPaymentDue = AddMonths(a.FirstPaymentDue, a.MonthsPaid)
	if a.MonthsPaid == a.Months {
		a.Status = EmiCompleted
	}
}

// AddMonths adds n calendar months to t, clamping the day to the end of the
// target month instead of overflowing into the next one.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
