package model

import "errors"

// Error kinds returned by the ledger and the managers. Callers match them
// with errors.Is; messages are wrapped with the failing entity.
var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidSplitData       = errors.New("invalid split data")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrSelfRequestNotAllowed  = errors.New("payer and payee must differ")
	ErrRequestAlreadyResolved = errors.New("request already resolved")
	ErrNotFound               = errors.New("not found")
	ErrNotAuthorized          = errors.New("not authorized")
	ErrAgreementTerminal      = errors.New("agreement is no longer active")
	ErrAccountExists          = errors.New("account already exists")

	// ErrRemoteRejected means the authority refused the transfer and no
	// local state changed.
	ErrRemoteRejected = errors.New("transfer rejected by ledger authority")
	// ErrConfirmationUnknown means the transfer was reserved locally but the
	// authority outcome is unknown. The pending record must be settled, not
	// resubmitted.
	ErrConfirmationUnknown = errors.New("transfer confirmation unknown")
	// ErrTransferInFlight is returned for entities whose previous transfer
	// has not settled yet.
	ErrTransferInFlight = errors.New("transfer still pending settlement")
	// ErrAlreadySettled is returned when settling a transaction that is no
	// longer pending.
	ErrAlreadySettled = errors.New("transaction already settled")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrInvalidSplitData, "InvalidSplitData"},
	{ErrInvalidAmount, "InvalidAmount"},
	{ErrInsufficientBalance, "InsufficientBalance"},
	{ErrSelfRequestNotAllowed, "SelfRequestNotAllowed"},
	{ErrRequestAlreadyResolved, "RequestAlreadyResolved"},
	{ErrNotFound, "NotFound"},
	{ErrNotAuthorized, "NotAuthorized"},
	{ErrAgreementTerminal, "AgreementTerminal"},
	{ErrAccountExists, "AccountExists"},
	{ErrRemoteRejected, "RemoteRejected"},
	{ErrConfirmationUnknown, "ConfirmationUnknown"},
	{ErrTransferInFlight, "TransferInFlight"},
	{ErrAlreadySettled, "AlreadySettled"},
}

// KindOf returns the name of the first error kind err matches, or
// "Internal" for anything outside the taxonomy.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Internal"
}

// InvalidSplit wraps ErrInvalidSplitData so that it also matches
// ErrInvalidAmount.
type InvalidSplit struct {
	Reason string
}

func (e *InvalidSplit) Error() string {
	return "invalid split data: " + e.Reason
}

func (e *InvalidSplit) Is(target error) bool {
	return target == ErrInvalidSplitData || target == ErrInvalidAmount
}
