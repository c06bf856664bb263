package model

import (
	"fmt"
	"time"
)

type RequestStatus int

const (
	RequestPending RequestStatus = iota
	RequestPaid
	RequestRejected
)

func (s RequestStatus) String() string {
	switch s {
	case RequestPending:
		return "Pending"
	case RequestPaid:
		return "Paid"
	case RequestRejected:
		return "Rejected"
	default:
		return fmt.Sprintf("RequestStatus(%d)", int(s))
	}
}

func ParseRequestStatus(s string) (RequestStatus, error) {
	switch s {
	case "Pending":
		return RequestPending, nil
	case "Paid":
		return RequestPaid, nil
	case "Rejected":
		return RequestRejected, nil
	default:
		return 0, fmt.Errorf("unknown request status %q", s)
	}
}

// PaymentRequest is a claim that From (the payer) owes To (the requester)
// Amount. The incoming requests of an address are the ones it has to pay.
type PaymentRequest struct {
	ID          string
	From        string
	To          string
	Amount      int64
	Description string
	CreatedAt   time.Time
	Status      RequestStatus
	// TransferHash is set once the payer accepted. While the transfer is
	// still pending the request stays RequestPending.
	TransferHash string
	ResolvedAt   *time.Time
}

func (r *PaymentRequest) IsTerminal() bool {
	switch r.Status {
	case RequestPaid, RequestRejected:
		return true
	case RequestPending:
		return false
	default:
		panic(fmt.Sprintf("unhandled request status %d", r.Status))
	}
}

// InFlight reports whether the request was accepted but its transfer is
// not settled yet.
func (r *PaymentRequest) InFlight() bool {
	return r.Status == RequestPending && r.TransferHash != ""
}
