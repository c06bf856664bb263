// Package authority defines the boundary to the remote ledger that the local
// mirror must stay consistent with. Implementations live outside this
// module; a nil Authority means the local ledger is authoritative.
package authority

import (
	"context"
	"fmt"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

// Transfer is one value movement submitted for confirmation. Reference is
// the locally generated hash and doubles as the idempotency key.
type Transfer struct {
	Reference string
	From      string
	To        string
	Amount    int64
}

// Reason classifies a definitive rejection.
type Reason string

const (
	ReasonInsufficientBalance Reason = "insufficient_balance"
	ReasonUnknownAccount      Reason = "unknown_account"
	ReasonOther               Reason = "other"
)

// SubmitResult is the authority's verdict. Success=false is definitive:
// nothing happened remotely.
type SubmitResult struct {
	Hash    string
	Success bool
	Reason  Reason
	Error   string
}

// Err maps a rejection onto the error taxonomy. It returns nil on success.
func (r SubmitResult) Err() error {
	if r.Success {
		return nil
	}
	switch r.Reason {
	case ReasonInsufficientBalance:
		return fmt.Errorf("%w: %w", model.ErrRemoteRejected, model.ErrInsufficientBalance)
	case ReasonUnknownAccount:
		return fmt.Errorf("%w: %w", model.ErrRemoteRejected, model.ErrNotFound)
	default:
		if r.Error != "" {
			return fmt.Errorf("%w: %s", model.ErrRemoteRejected, r.Error)
		}
		return model.ErrRemoteRejected
	}
}

// Authority submits transfers and reports balances. A non-nil error from
// SubmitTransfer means the outcome is unknown, not that it failed.
type Authority interface {
	SubmitTransfer(ctx context.Context, t Transfer) (SubmitResult, error)
	GetBalance(ctx context.Context, address string) (int64, error)
}

type TransferStatus int

const (
	StatusUnknown TransferStatus = iota
	StatusConfirmed
	StatusFailed
)

func (s TransferStatus) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("TransferStatus(%d)", int(s))
	}
}

// StatusQuerier is implemented by authorities that can report the outcome
// of an earlier submission, looked up by its reference.
type StatusQuerier interface {
	TransferStatus(ctx context.Context, reference string) (TransferStatus, error)
}
