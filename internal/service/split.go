package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/config"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/constants"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/events"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ledger"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/store"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/validation"
)

// Share is the amount one participant owes the split creator.
type Share struct {
	Address string
	Amount  int64
}

// EvenShares divides total among addresses. The remainder of the division
// goes to the creator (returned as creatorShare) or to the first
// participant, depending on policy.
func EvenShares(total int64, addresses []string, policy string) ([]Share, int64, error) {
	if total <= 0 {
		return nil, 0, fmt.Errorf("split total %d: %w", total, model.ErrInvalidAmount)
	}
	if len(addresses) == 0 {
		return nil, 0, &model.InvalidSplit{Reason: "no participants"}
	}

	n := int64(len(addresses))
	per, remainder := total/n, total%n
	if per == 0 {
		return nil, 0, &model.InvalidSplit{Reason: fmt.Sprintf("%d minor units cannot be split %d ways", total, n)}
	}

	shares := make([]Share, len(addresses))
	for i, a := range addresses {
		shares[i] = Share{Address: a, Amount: per}
	}

	switch policy {
	case config.RemainderToCreator:
		return shares, remainder, nil
	case config.RemainderToFirst:
		shares[0].Amount += remainder
		return shares, 0, nil
	default:
		return nil, 0, fmt.Errorf("unknown remainder policy %q", policy)
	}
}

type SplitService struct {
	repo     store.Repository
	requests *RequestService
	locks    *ledger.Locker
	notify   notifier
	config   Config
}

func NewSplitService(repo store.Repository, requests *RequestService, n notifier, cfg Config) *SplitService {
	return &SplitService{repo: repo, requests: requests, locks: ledger.NewLocker(), notify: n, config: cfg}
}

func (ss *SplitService) lock(id string) func() {
	return ss.locks.Lock(constants.LockPrefixSplit + id)
}

// CreateSplit splits total into the given custom shares. The shares must
// add up to total within the configured epsilon.
func (ss *SplitService) CreateSplit(ctx context.Context, createdBy string, total int64, description string, shares []Share, originalTxHash string) (*model.BillSplit, error) {
	if total <= 0 {
		return nil, fmt.Errorf("split total %d: %w", total, model.ErrInvalidAmount)
	}
	limit := total + ss.config.SplitEpsilon
	if limit < total {
		limit = math.MaxInt64
	}
	var sum int64
	for _, s := range shares {
		if s.Amount <= 0 {
			return nil, &model.InvalidSplit{Reason: fmt.Sprintf("share of %s is %d", s.Address, s.Amount)}
		}
		if s.Amount > limit-sum {
			return nil, &model.InvalidSplit{Reason: fmt.Sprintf("shares exceed total %d", total)}
		}
		sum += s.Amount
	}
	diff := sum - total
	if diff < 0 {
		diff = -diff
	}
	if diff > ss.config.SplitEpsilon {
		return nil, &model.InvalidSplit{Reason: fmt.Sprintf("shares add up to %d, total is %d", sum, total)}
	}
	return ss.create(ctx, createdBy, total, 0, description, shares, originalTxHash)
}

// CreateEvenSplit divides total evenly among addresses.
func (ss *SplitService) CreateEvenSplit(ctx context.Context, createdBy string, total int64, description string, addresses []string, originalTxHash string) (*model.BillSplit, error) {
	shares, creatorShare, err := EvenShares(total, addresses, ss.config.RemainderPolicy)
	if err != nil {
		return nil, err
	}
	return ss.create(ctx, createdBy, total, creatorShare, description, shares, originalTxHash)
}

func (ss *SplitService) create(ctx context.Context, createdBy string, total, creatorShare int64, description string, shares []Share, originalTxHash string) (*model.BillSplit, error) {
	createdBy = strings.TrimSpace(createdBy)
	if createdBy == "" {
		return nil, &model.InvalidSplit{Reason: "missing creator"}
	}
	if err := rejectEscrow(createdBy); err != nil {
		return nil, err
	}
	if len(shares) == 0 {
		return nil, &model.InvalidSplit{Reason: "no participants"}
	}
	if err := validation.ValidateDescription(description); err != nil {
		return nil, err
	}

	split := &model.BillSplit{
		ID:             uuid.NewString(),
		OriginalTxHash: originalTxHash,
		CreatedBy:      createdBy,
		TotalAmount:    total,
		CreatorShare:   creatorShare,
		Description:    description,
		Participants:   make([]model.BillParticipant, 0, len(shares)),
		Status:         model.SplitPending,
		CreatedAt:      ss.notify.now().UTC(),
	}

	seen := make(map[string]bool, len(shares))
	for _, s := range shares {
		address := strings.TrimSpace(s.Address)
		if address == "" {
			return nil, &model.InvalidSplit{Reason: "participant without address"}
		}
		if err := rejectEscrow(address); err != nil {
			return nil, err
		}
		if seen[address] {
			return nil, &model.InvalidSplit{Reason: fmt.Sprintf("participant %s listed twice", address)}
		}
		if s.Amount <= 0 {
			return nil, &model.InvalidSplit{Reason: fmt.Sprintf("share of %s is %d", address, s.Amount)}
		}
		seen[address] = true
		split.Participants = append(split.Participants, model.BillParticipant{
			Address: address,
			Amount:  s.Amount,
			Status:  model.ParticipantPending,
		})
	}

	var linked []*model.PaymentRequest
	err := ss.repo.ExecTx(func(tx store.Repository) error {
		linked = linked[:0]
		for i := range split.Participants {
			req, err := ss.link(tx, split, &split.Participants[i])
			if err != nil {
				return err
			}
			if req != nil {
				linked = append(linked, req)
			}
		}
		return tx.CreateBillSplit(split)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bill split: %w", err)
	}

	for _, req := range linked {
		ss.requests.created(ctx, req)
	}
	for _, p := range split.Participants {
		if !p.Linked() {
			logrus.WithFields(logrus.Fields{
				"split":       split.ID,
				"participant": p.Address,
				"error":       p.LinkError,
			}).Warn("Bill split participant left unlinked")
		}
	}
	logrus.WithFields(logrus.Fields{
		"split":        split.ID,
		"created_by":   split.CreatedBy,
		"total":        split.TotalAmount,
		"participants": len(split.Participants),
	}).Info("Bill split created")
	ss.notify.emit(ctx, constants.EventSplitCreated, split.ID, splitPayload(split))
	return split, nil
}

// link creates the participant's payment request. Errors from the error
// taxonomy leave the participant unlinked with the reason recorded; any
// other error aborts.
func (ss *SplitService) link(tx store.Repository, split *model.BillSplit, p *model.BillParticipant) (*model.PaymentRequest, error) {
	req, err := ss.requests.insert(tx, p.Address, split.CreatedBy, p.Amount, split.Description)
	if err != nil {
		if model.KindOf(err) == "Internal" {
			return nil, err
		}
		p.LinkError = err.Error()
		return nil, nil
	}
	p.PaymentRequestID = req.ID
	p.LinkError = ""
	return req, nil
}

// RetryParticipant tries again to create the payment request of an
// unlinked participant. A participant that is already linked is left as is.
func (ss *SplitService) RetryParticipant(ctx context.Context, splitID, address, acting string) (*model.BillSplit, error) {
	defer ss.lock(splitID)()

	split, err := ss.repo.GetBillSplit(splitID)
	if err != nil {
		return nil, err
	}
	if acting != split.CreatedBy {
		return nil, fmt.Errorf("%s did not create split %s: %w", acting, splitID, model.ErrNotAuthorized)
	}
	p := split.Participant(address)
	if p == nil {
		return nil, fmt.Errorf("participant %s of split %s: %w", address, splitID, model.ErrNotFound)
	}
	if p.Linked() {
		return split, nil
	}

	var req *model.PaymentRequest
	err = ss.repo.ExecTx(func(tx store.Repository) error {
		var err error
		if req, err = ss.link(tx, split, p); err != nil {
			return err
		}
		return tx.UpdateBillSplit(split)
	})
	if err != nil {
		return nil, err
	}

	if req == nil {
		return split, fmt.Errorf("participant %s is still unlinked: %s", address, p.LinkError)
	}
	ss.requests.created(ctx, req)
	logrus.WithFields(logrus.Fields{
		"split":       split.ID,
		"participant": address,
		"request":     req.ID,
	}).Info("Bill split participant linked")
	return split, nil
}

// MarkParticipantPaid records that the participant's linked request was
// paid by the transfer hash. Repeating it with the same hash is a no-op.
func (ss *SplitService) MarkParticipantPaid(ctx context.Context, splitID, address, hash string) (*model.BillSplit, error) {
	defer ss.lock(splitID)()

	split, err := ss.repo.GetBillSplit(splitID)
	if err != nil {
		return nil, err
	}
	p := split.Participant(address)
	if p == nil {
		return nil, fmt.Errorf("participant %s of split %s: %w", address, splitID, model.ErrNotFound)
	}

	switch p.Status {
	case model.ParticipantPaid:
		if p.TransactionHash == hash {
			return split, nil
		}
		return nil, fmt.Errorf("participant %s already paid with %s: %w", address, p.TransactionHash, model.ErrRequestAlreadyResolved)
	case model.ParticipantPending:
	default:
		panic(fmt.Sprintf("unhandled participant status %d", p.Status))
	}

	if !p.Linked() {
		return nil, fmt.Errorf("participant %s has no payment request: %w", address, model.ErrNotFound)
	}
	req, err := ss.repo.GetPaymentRequest(p.PaymentRequestID)
	if err != nil {
		return nil, err
	}
	if req.Status != model.RequestPaid || req.TransferHash != hash {
		return nil, &model.InvalidSplit{Reason: fmt.Sprintf("request %s was not paid by %s", req.ID, hash)}
	}

	now := ss.notify.now().UTC()
	p.Status = model.ParticipantPaid
	p.PaidAt = &now
	p.TransactionHash = hash
	split.Refresh()
	if err := ss.repo.UpdateBillSplit(split); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"split":       split.ID,
		"participant": address,
		"status":      split.Status.String(),
	}).Info("Bill split participant paid")
	if split.Status == model.SplitCompleted {
		ss.notify.emit(ctx, constants.EventSplitCompleted, split.ID, splitPayload(split))
	}
	return split, nil
}

func (ss *SplitService) onRequestPaid(ctx context.Context, ev events.Event) error {
	paid, ok := ev.Payload.(events.RequestChanged)
	if !ok {
		return nil
	}
	split, err := ss.repo.GetBillSplitByRequest(paid.RequestID)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = ss.MarkParticipantPaid(ctx, split.ID, paid.From, paid.TransferHash)
	return err
}

func (ss *SplitService) Get(id string) (*model.BillSplit, error) {
	return ss.repo.GetBillSplit(id)
}

func (ss *SplitService) ListByCreator(address string) ([]*model.BillSplit, error) {
	return ss.repo.ListBillSplitsByCreator(address)
}

func (ss *SplitService) ListByParticipant(address string) ([]*model.BillSplit, error) {
	return ss.repo.ListBillSplitsByParticipant(address)
}

func splitPayload(split *model.BillSplit) events.SplitChanged {
	return events.SplitChanged{
		SplitID:   split.ID,
		CreatedBy: split.CreatedBy,
		Status:    split.Status.String(),
	}
}
