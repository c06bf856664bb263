package constants

const (
	MaxAddressLen     = 128
	MaxDescriptionLen = 280
)

const (
	// DateFormat is the layout accepted by date flags.
	DateFormat = "2006-01-02"
	// TimeFormat is used when rendering timestamps.
	TimeFormat = "2006-01-02 15:04"
)

// Event types published after a committed mutation.
const (
	EventTransferSettled    = "transfer.settled"
	EventRequestCreated     = "request.created"
	EventRequestPaid        = "request.paid"
	EventRequestRejected    = "request.rejected"
	EventSplitCreated       = "split.created"
	EventSplitCompleted     = "split.completed"
	EventEmiCreated         = "emi.created"
	EventEmiInstallmentPaid = "emi.installment_paid"
	EventEmiCompleted       = "emi.completed"
	EventEmiDefaulted       = "emi.defaulted"
)

// Lock key prefixes for per-entity serialization.
const (
	LockPrefixRequest = "request:"
	LockPrefixEmi     = "emi:"
	LockPrefixSplit   = "split:"
)
