package model

import (
	"fmt"
	"time"
)

// TxStatus is the settlement state of a transaction record.
type TxStatus int

const (
	TxPending TxStatus = iota
	TxConfirmed
	TxFailed
)

func (s TxStatus) String() string {
	switch s {
	case TxPending:
		return "pending"
	case TxConfirmed:
		return "confirmed"
	case TxFailed:
		return "failed"
	default:
		return fmt.Sprintf("TxStatus(%d)", int(s))
	}
}

func ParseTxStatus(s string) (TxStatus, error) {
	switch s {
	case "pending":
		return TxPending, nil
	case "confirmed":
		return TxConfirmed, nil
	case "failed":
		return TxFailed, nil
	default:
		return 0, fmt.Errorf("unknown transaction status %q", s)
	}
}

// TxKind is how a transaction looks from one party's point of view.
type TxKind int

const (
	KindSent TxKind = iota
	KindReceived
	KindOther
)

func (k TxKind) String() string {
	switch k {
	case KindSent:
		return "sent"
	case KindReceived:
		return "received"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("TxKind(%d)", int(k))
	}
}

func ParseTxKind(s string) (TxKind, error) {
	switch s {
	case "sent":
		return KindSent, nil
	case "received":
		return KindReceived, nil
	case "other":
		return KindOther, nil
	default:
		return 0, fmt.Errorf("unknown transaction kind %q", s)
	}
}

// Transaction is the immutable audit record of one value movement. Only
// Status may change after creation, and only away from TxPending.
type Transaction struct {
	Hash      string
	From      string
	To        string
	Amount    int64
	Timestamp time.Time
	Status    TxStatus
	Note      string
	// External is set for mint records, which have no debited party.
	External bool
}

// KindFor reports the kind of the transaction as seen by address.
func (t *Transaction) KindFor(address string) TxKind {
	switch {
	case t.External, t.From == t.To:
		return KindOther
	case t.From == address:
		return KindSent
	case t.To == address:
		return KindReceived
	default:
		return KindOther
	}
}

// LedgerEntry is one row of an account's transaction view. Seq grows in
// commit order across the whole ledger.
type LedgerEntry struct {
	Seq         int64
	Address     string
	Kind        TxKind
	Transaction Transaction
}
