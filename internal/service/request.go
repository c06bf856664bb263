package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/constants"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/events"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ledger"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/store"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/validation"
)

// RequestService manages payment requests. From is always the payer and To
// the requester.
type RequestService struct {
	repo   store.Repository
	engine *ledger.Engine
	locks  *ledger.Locker
	notify notifier
}

func NewRequestService(repo store.Repository, engine *ledger.Engine, n notifier) *RequestService {
	return &RequestService{repo: repo, engine: engine, locks: ledger.NewLocker(), notify: n}
}

func (rs *RequestService) lock(id string) func() {
	return rs.locks.Lock(constants.LockPrefixRequest + id)
}

// Create records a Pending request asking from to pay to.
func (rs *RequestService) Create(ctx context.Context, from, to string, amount int64, description string) (*model.PaymentRequest, error) {
	req, err := rs.insert(rs.repo, from, to, amount, description)
	if err != nil {
		return nil, err
	}
	rs.created(ctx, req)
	return req, nil
}

// insert validates and stores a new request through repo, which may be a
// transaction view.
func (rs *RequestService) insert(repo store.Repository, from, to string, amount int64, description string) (*model.PaymentRequest, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if amount <= 0 {
		return nil, fmt.Errorf("request amount %d: %w", amount, model.ErrInvalidAmount)
	}
	if from == to {
		return nil, fmt.Errorf("request from %s to itself: %w", from, model.ErrSelfRequestNotAllowed)
	}
	if err := rejectEscrow(from, to); err != nil {
		return nil, err
	}
	if err := validation.ValidateDescription(description); err != nil {
		return nil, err
	}
	for _, address := range []string{from, to} {
		exists, err := repo.AccountExists(address)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("account %s: %w", address, model.ErrNotFound)
		}
	}

	req := &model.PaymentRequest{
		ID:          uuid.NewString(),
		From:        from,
		To:          to,
		Amount:      amount,
		Description: description,
		CreatedAt:   rs.notify.now().UTC(),
		Status:      model.RequestPending,
	}
	if err := repo.CreatePaymentRequest(req); err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}
	return req, nil
}

func (rs *RequestService) created(ctx context.Context, req *model.PaymentRequest) {
	logrus.WithFields(logrus.Fields{
		"request": req.ID,
		"from":    req.From,
		"to":      req.To,
		"amount":  req.Amount,
	}).Info("Payment request created")
	rs.notify.emit(ctx, constants.EventRequestCreated, req.ID, requestPayload(req))
}

// checkResolvable enforces that only the payer resolves a Pending request
// with no transfer in flight.
func checkResolvable(req *model.PaymentRequest, acting string) error {
	if acting != req.From {
		return fmt.Errorf("%s cannot resolve request %s: %w", acting, req.ID, model.ErrNotAuthorized)
	}
	if req.IsTerminal() {
		return fmt.Errorf("request %s is %s: %w", req.ID, req.Status, model.ErrRequestAlreadyResolved)
	}
	if req.InFlight() {
		return fmt.Errorf("request %s waits for transfer %s: %w", req.ID, req.TransferHash, model.ErrTransferInFlight)
	}
	return nil
}

// Accept pays the request. On InsufficientBalance the request stays
// Pending. When the transfer is still unconfirmed the request keeps the
// transfer hash and becomes Paid once it settles.
func (rs *RequestService) Accept(ctx context.Context, id, acting string) (*model.Transaction, error) {
	defer rs.lock(id)()

	req, err := rs.repo.GetPaymentRequest(id)
	if err != nil {
		return nil, err
	}
	if err := checkResolvable(req, acting); err != nil {
		return nil, err
	}

	var txn *model.Transaction
	err = rs.engine.Atomically(ctx, []string{req.From, req.To}, func(op *ledger.Op) error {
		var err error
		txn, err = op.Transfer(req.From, req.To, req.Amount, "payment request "+req.ID)
		if err != nil {
			return err
		}
		req.TransferHash = txn.Hash
		if txn.Status == model.TxConfirmed {
			markPaid(req, op.Now())
		}
		return op.Repo().UpdatePaymentRequest(req)
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"request": id,
			"error":   err.Error(),
		}).Warn("Payment request accept failed")
		return nil, err
	}

	if txn.Status == model.TxPending {
		return txn, ledger.PendingError(txn.Hash)
	}
	rs.paid(ctx, req)
	return txn, nil
}

func markPaid(req *model.PaymentRequest, at time.Time) {
	req.Status = model.RequestPaid
	req.ResolvedAt = &at
}

func (rs *RequestService) paid(ctx context.Context, req *model.PaymentRequest) {
	logrus.WithFields(logrus.Fields{
		"request": req.ID,
		"hash":    req.TransferHash,
	}).Info("Payment request paid")
	rs.notify.emit(ctx, constants.EventRequestPaid, req.ID, requestPayload(req))
}

// Reject closes the request without moving funds.
func (rs *RequestService) Reject(ctx context.Context, id, acting string) (*model.PaymentRequest, error) {
	defer rs.lock(id)()

	req, err := rs.repo.GetPaymentRequest(id)
	if err != nil {
		return nil, err
	}
	if err := checkResolvable(req, acting); err != nil {
		return nil, err
	}

	now := rs.notify.now().UTC()
	req.Status = model.RequestRejected
	req.ResolvedAt = &now
	if err := rs.repo.UpdatePaymentRequest(req); err != nil {
		return nil, err
	}

	logrus.WithField("request", req.ID).Info("Payment request rejected")
	rs.notify.emit(ctx, constants.EventRequestRejected, req.ID, requestPayload(req))
	return req, nil
}

func (rs *RequestService) onTransferSettled(ctx context.Context, ev events.Event) error {
	settled, ok := ev.Payload.(events.TransferSettled)
	if !ok {
		return nil
	}
	found, err := rs.repo.GetRequestByTransferHash(settled.Hash)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	defer rs.lock(found.ID)()

	req, err := rs.repo.GetPaymentRequest(found.ID)
	if err != nil {
		return err
	}
	if !req.InFlight() || req.TransferHash != settled.Hash {
		return nil
	}

	if settled.Status == model.TxConfirmed.String() {
		markPaid(req, ev.OccurredAt)
	} else {
		req.TransferHash = ""
	}
	if err := rs.repo.UpdatePaymentRequest(req); err != nil {
		return err
	}

	if req.Status == model.RequestPaid {
		rs.paid(ctx, req)
	} else {
		logrus.WithFields(logrus.Fields{
			"request": req.ID,
			"hash":    settled.Hash,
		}).Warn("Payment request transfer failed, request is pending again")
	}
	return nil
}

func (rs *RequestService) Get(id string) (*model.PaymentRequest, error) {
	return rs.repo.GetPaymentRequest(id)
}

// ListIncoming returns the requests address has to pay.
func (rs *RequestService) ListIncoming(address string) ([]*model.PaymentRequest, error) {
	return rs.repo.ListRequestsByPayer(address)
}

// ListOutgoing returns the requests address is waiting to be paid for.
func (rs *RequestService) ListOutgoing(address string) ([]*model.PaymentRequest, error) {
	return rs.repo.ListRequestsByPayee(address)
}

func requestPayload(req *model.PaymentRequest) events.RequestChanged {
	return events.RequestChanged{
		RequestID:    req.ID,
		From:         req.From,
		To:           req.To,
		Amount:       req.Amount,
		Status:       req.Status.String(),
		TransferHash: req.TransferHash,
	}
}
