package model

import (
	"fmt"
	"time"
)

type SplitStatus int

const (
	SplitPending SplitStatus = iota
	SplitPartial
	SplitCompleted
)

func (s SplitStatus) String() string {
	switch s {
	case SplitPending:
		return "pending"
	case SplitPartial:
		return "partial"
	case SplitCompleted:
		return "completed"
	default:
		return fmt.Sprintf("SplitStatus(%d)", int(s))
	}
}

func ParseSplitStatus(s string) (SplitStatus, error) {
	switch s {
	case "pending":
		return SplitPending, nil
	case "partial":
		return SplitPartial, nil
	case "completed":
		return SplitCompleted, nil
	default:
		return 0, fmt.Errorf("unknown split status %q", s)
	}
}

type ParticipantStatus int

const (
	ParticipantPending ParticipantStatus = iota
	ParticipantPaid
)

func (s ParticipantStatus) String() string {
	switch s {
	case ParticipantPending:
		return "pending"
	case ParticipantPaid:
		return "paid"
	default:
		return fmt.Sprintf("ParticipantStatus(%d)", int(s))
	}
}

func ParseParticipantStatus(s string) (ParticipantStatus, error) {
	switch s {
	case "pending":
		return ParticipantPending, nil
	case "paid":
		return ParticipantPaid, nil
	default:
		return 0, fmt.Errorf("unknown participant status %q", s)
	}
}

// BillParticipant is one payer of a bill split.
type BillParticipant struct {
	Address          string
	Amount           int64
	Status           ParticipantStatus
	PaymentRequestID string // empty when the request could not be created
	LinkError        string
	PaidAt           *time.Time
	TransactionHash  string
}

func (p *BillParticipant) Linked() bool {
	return p.PaymentRequestID != ""
}

// BillSplit decomposes one payment into requests owed by the participants.
// CreatorShare is the part of TotalAmount nobody is asked to pay.
type BillSplit struct {
	ID             string
	OriginalTxHash string
	CreatedBy      string
	TotalAmount    int64
	CreatorShare   int64
	Description    string
	Participants   []BillParticipant
	Status         SplitStatus
	CreatedAt      time.Time
}

// Participant returns the participant with the given address, or nil.
func (s *BillSplit) Participant(address string) *BillParticipant {
	for i := range s.Participants {
		if s.Participants[i].Address == address {
			return &s.Participants[i]
		}
	}
	return nil
}

// Refresh recomputes Status from the participants.
func (s *BillSplit) Refresh() {
	s.Status = DeriveSplitStatus(s.Participants)
}

// PaidAmount sums the shares already paid.
func (s *BillSplit) PaidAmount() int64 {
	var total int64
	for _, p := range s.Participants {
		if p.Status == ParticipantPaid {
			total += p.Amount
		}
	}
	return total
}

// DeriveSplitStatus is completed iff all participants paid, pending iff
// none did, partial otherwise.
func DeriveSplitStatus(participants []BillParticipant) SplitStatus {
	paid := 0
	for _, p := range participants {
		switch p.Status {
		case ParticipantPaid:
			paid++
		case ParticipantPending:
		default:
			panic(fmt.Sprintf("unhandled participant status %d", p.Status))
		}
	}

	switch {
	case paid == 0:
		return SplitPending
	case paid == len(participants):
		return SplitCompleted
	default:
		return SplitPartial
	}
}
