// Package ledger owns every balance change. Managers move value only
// through an Engine, either with ExecuteTransfer or inside Atomically when
// the transfer must commit together with their own records.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/authority"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/constants"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/events"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/store"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/validation"
)

var (
	ErrNoAuthority   = errors.New("no ledger authority configured")
	ErrNoStatusQuery = errors.New("ledger authority cannot report transfer status")
)

type Engine struct {
	repo      store.Repository
	authority authority.Authority
	publisher events.Publisher
	locker    *Locker
	now       func() time.Time
}

type Option func(*Engine)

// WithAuthority makes every transfer wait for remote confirmation.
func WithAuthority(a authority.Authority) Option {
	return func(e *Engine) { e.authority = a }
}

func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(repo store.Repository, opts ...Option) *Engine {
	e := &Engine{
		repo:      repo,
		publisher: events.Discard{},
		locker:    NewLocker(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HasAuthority reports whether transfers are confirmed remotely.
func (e *Engine) HasAuthority() bool {
	return e.authority != nil
}

// PendingError is the error returned for a transfer reserved locally whose
// remote outcome is not known yet.
func PendingError(hash string) error {
	return fmt.Errorf("transfer %s: %w", hash, model.ErrConfirmationUnknown)
}

// Op is the view of the ledger handed to an Atomically callback. It may
// only move value between the addresses that were locked for it.
type Op struct {
	ctx       context.Context
	engine    *Engine
	repo      store.Repository
	locked    map[string]bool
	committed []*model.Transaction
}

// Repo is the transactional repository shared with the transfers.
func (o *Op) Repo() store.Repository {
	return o.repo
}

func (o *Op) Now() time.Time {
	return o.engine.now().UTC()
}

func (o *Op) Balance(address string) (int64, error) {
	return NewAccountStore(o.repo).GetBalance(address)
}

func (o *Op) checkLocked(addresses ...string) error {
	for _, a := range addresses {
		if !o.locked[a] {
			return fmt.Errorf("address %s is not locked by this operation", a)
		}
	}
	return nil
}

// EnsureAccount creates an empty account for address if it has none.
func (o *Op) EnsureAccount(address string) error {
	if err := o.checkLocked(address); err != nil {
		return err
	}
	exists, err := o.repo.AccountExists(address)
	if err != nil || exists {
		return err
	}
	return o.repo.CreateAccount(&model.Account{Address: address, CreatedAt: o.Now()})
}

// Transfer moves amount from one locked address to another. With an
// authority configured the debit is held while the transfer is submitted.
// A definitive rejection undoes the debit and returns the mapped error. An
// unknown outcome keeps the debit and returns a TxPending transaction with
// a nil error, so the reservation commits with the caller's records.
func (o *Op) Transfer(from, to string, amount int64, note string) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("transfer of %d: %w", amount, model.ErrInvalidAmount)
	}
	if err := o.checkLocked(from, to); err != nil {
		return nil, err
	}

	exists, err := o.repo.AccountExists(to)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("recipient %s: %w", to, model.ErrNotFound)
	}

	accounts := NewAccountStore(o.repo)
	if err := accounts.Debit(from, amount); err != nil {
		return nil, err
	}

	now := o.Now()
	txn := &model.Transaction{
		Hash:      newHash(from, to, amount, now),
		From:      from,
		To:        to,
		Amount:    amount,
		Timestamp: now,
		Status:    model.TxConfirmed,
		Note:      note,
	}

	if auth := o.engine.authority; auth != nil {
		res, err := auth.SubmitTransfer(o.ctx, authority.Transfer{
			Reference: txn.Hash,
			From:      from,
			To:        to,
			Amount:    amount,
		})
		switch {
		case err != nil:
			logrus.WithFields(logrus.Fields{
				"hash":   txn.Hash,
				"from":   from,
				"to":     to,
				"amount": amount,
				"error":  err.Error(),
			}).Warn("Transfer outcome unknown, holding reservation")
			txn.Status = model.TxPending
		case !res.Success:
			if err := accounts.Credit(from, amount); err != nil {
				return nil, err
			}
			return nil, res.Err()
		case res.Hash != "":
			txn.Hash = res.Hash
		}
	}

	if txn.Status == model.TxConfirmed {
		if err := accounts.Credit(to, amount); err != nil {
			return nil, err
		}
	}
	if err := o.record(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (o *Op) mint(address string, amount int64, note string) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("mint of %d: %w", amount, model.ErrInvalidAmount)
	}
	if err := o.checkLocked(address); err != nil {
		return nil, err
	}
	if err := NewAccountStore(o.repo).Credit(address, amount); err != nil {
		return nil, err
	}

	now := o.Now()
	txn := &model.Transaction{
		Hash:      newHash("", address, amount, now),
		To:        address,
		Amount:    amount,
		Timestamp: now,
		Status:    model.TxConfirmed,
		Note:      note,
		External:  true,
	}
	if err := o.record(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (o *Op) record(txn *model.Transaction) error {
	if err := o.repo.CreateTransaction(txn); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	if txn.External || txn.From == txn.To {
		if err := o.repo.AppendLedgerEntry(txn.To, txn.Hash, txn.KindFor(txn.To)); err != nil {
			return err
		}
	} else {
		if err := o.repo.AppendLedgerEntry(txn.From, txn.Hash, txn.KindFor(txn.From)); err != nil {
			return err
		}
		if err := o.repo.AppendLedgerEntry(txn.To, txn.Hash, txn.KindFor(txn.To)); err != nil {
			return err
		}
	}
	o.committed = append(o.committed, txn)
	return nil
}

// Atomically locks addresses, then runs fn in one store transaction.
// Nothing fn did is kept if it returns an error.
func (e *Engine) Atomically(ctx context.Context, addresses []string, fn func(op *Op) error) error {
	unlock := e.locker.Lock(addresses...)
	defer unlock()

	locked := make(map[string]bool, len(addresses))
	for _, a := range addresses {
		locked[a] = true
	}

	var op *Op
	err := e.repo.ExecTx(func(tx store.Repository) error {
		op = &Op{ctx: ctx, engine: e, repo: tx, locked: locked}
		return fn(op)
	})
	if err != nil {
		if op != nil && e.authority != nil {
			for _, txn := range op.committed {
				if txn.Status == model.TxConfirmed && !txn.External {
					logrus.WithFields(logrus.Fields{
						"hash":  txn.Hash,
						"error": err.Error(),
					}).Error("Remote transfer confirmed but local commit failed")
				}
			}
		}
		return err
	}

	for _, txn := range op.committed {
		logrus.WithFields(logrus.Fields{
			"hash":   txn.Hash,
			"from":   txn.From,
			"to":     txn.To,
			"amount": txn.Amount,
			"status": txn.Status.String(),
		}).Info("Transfer committed")
	}
	return nil
}

// ExecuteTransfer moves amount between two accounts. A pending transfer is
// returned together with ErrConfirmationUnknown.
func (e *Engine) ExecuteTransfer(ctx context.Context, from, to string, amount int64, note string) (*model.Transaction, error) {
	var txn *model.Transaction
	err := e.Atomically(ctx, []string{from, to}, func(op *Op) error {
		var err error
		txn, err = op.Transfer(from, to, amount, note)
		return err
	})
	if err != nil {
		return nil, err
	}
	if txn.Status == model.TxPending {
		return txn, PendingError(txn.Hash)
	}
	return txn, nil
}

// EnsureAccount creates an account, crediting initial through an external
// mint record when it is positive.
func (e *Engine) EnsureAccount(ctx context.Context, address string, initial int64) (*model.Account, error) {
	if err := validation.ValidateAddress(address); err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", address, err)
	}
	if initial < 0 {
		return nil, fmt.Errorf("initial balance %d: %w", initial, model.ErrInvalidAmount)
	}

	acc := &model.Account{Address: address, CreatedAt: e.now().UTC()}
	err := e.Atomically(ctx, []string{address}, func(op *Op) error {
		if err := op.repo.CreateAccount(acc); err != nil {
			return err
		}
		if initial > 0 {
			if _, err := op.mint(address, initial, "initial balance"); err != nil {
				return err
			}
			acc.Balance = initial
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// Mint credits an existing account from outside the ledger.
func (e *Engine) Mint(ctx context.Context, address string, amount int64, note string) (*model.Transaction, error) {
	var txn *model.Transaction
	err := e.Atomically(ctx, []string{address}, func(op *Op) error {
		var err error
		txn, err = op.mint(address, amount, note)
		return err
	})
	return txn, err
}

// Settle resolves a pending transfer. A confirmed transfer credits the
// recipient; a failed one returns the reservation to the sender.
func (e *Engine) Settle(ctx context.Context, hash string, confirmed bool) (*model.Transaction, error) {
	txn, err := e.repo.GetTransaction(hash)
	if err != nil {
		return nil, err
	}

	err = e.Atomically(ctx, []string{txn.From, txn.To}, func(op *Op) error {
		cur, err := op.repo.GetTransaction(hash)
		if err != nil {
			return err
		}
		if cur.Status != model.TxPending {
			return fmt.Errorf("transaction %s is %s: %w", hash, cur.Status, model.ErrAlreadySettled)
		}

		status, target := model.TxFailed, cur.From
		if confirmed {
			status, target = model.TxConfirmed, cur.To
		}
		if err := NewAccountStore(op.repo).Credit(target, cur.Amount); err != nil {
			return err
		}
		if err := op.repo.UpdateTransactionStatus(hash, status); err != nil {
			return err
		}
		cur.Status = status
		txn = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"hash":   txn.Hash,
		"status": txn.Status.String(),
	}).Info("Transfer settled")

	e.publish(ctx, events.Event{
		Type:     constants.EventTransferSettled,
		EntityID: txn.Hash,
		Payload: events.TransferSettled{
			Hash:   txn.Hash,
			From:   txn.From,
			To:     txn.To,
			Amount: txn.Amount,
			Status: txn.Status.String(),
		},
		OccurredAt: e.now().UTC(),
	})
	return txn, nil
}

// ReconcilePending asks the authority about every pending transfer and
// settles the ones it has an answer for.
func (e *Engine) ReconcilePending(ctx context.Context) ([]*model.Transaction, error) {
	querier, ok := e.authority.(authority.StatusQuerier)
	if !ok {
		return nil, ErrNoStatusQuery
	}

	pending, err := e.repo.ListTransactionsByStatus(model.TxPending)
	if err != nil {
		return nil, err
	}

	var settled []*model.Transaction
	for _, txn := range pending {
		status, err := querier.TransferStatus(ctx, txn.Hash)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"hash":  txn.Hash,
				"error": err.Error(),
			}).Warn("Transfer status query failed")
			continue
		}
		if status == authority.StatusUnknown {
			continue
		}

		s, err := e.Settle(ctx, txn.Hash, status == authority.StatusConfirmed)
		if errors.Is(err, model.ErrAlreadySettled) {
			continue
		}
		if err != nil {
			return settled, err
		}
		settled = append(settled, s)
	}
	return settled, nil
}

// BalanceCheck compares the local mirror of an account with the authority.
type BalanceCheck struct {
	Address string
	Local   int64
	Remote  int64
}

func (c BalanceCheck) Drift() int64 {
	return c.Remote - c.Local
}

func (c BalanceCheck) InSync() bool {
	return c.Local == c.Remote
}

func (e *Engine) VerifyBalance(ctx context.Context, address string) (BalanceCheck, error) {
	if e.authority == nil {
		return BalanceCheck{}, ErrNoAuthority
	}

	local, err := e.GetBalance(address)
	if err != nil {
		return BalanceCheck{}, err
	}
	remote, err := e.authority.GetBalance(ctx, address)
	if err != nil {
		return BalanceCheck{}, fmt.Errorf("failed to query remote balance of %s: %w", address, err)
	}

	check := BalanceCheck{Address: address, Local: local, Remote: remote}
	if !check.InSync() {
		logrus.WithFields(logrus.Fields{
			"address": address,
			"local":   local,
			"remote":  remote,
		}).Warn("Balance drift detected")
	}
	return check, nil
}

// GetBalance returns 0 for unknown addresses.
func (e *Engine) GetBalance(address string) (int64, error) {
	return NewAccountStore(e.repo).GetBalance(address)
}

func (e *Engine) GetAccount(address string) (*model.Account, error) {
	return e.repo.GetAccount(address)
}

func (e *Engine) ListAccounts() ([]*model.Account, error) {
	return e.repo.ListAccounts()
}

func (e *Engine) GetTransaction(hash string) (*model.Transaction, error) {
	return e.repo.GetTransaction(hash)
}

func (e *Engine) PendingTransactions() ([]*model.Transaction, error) {
	return e.repo.ListTransactionsByStatus(model.TxPending)
}

// History returns the newest ledger entries of address first. A limit of
// zero or less falls back to the store default.
func (e *Engine) History(address string, limit int) ([]*model.LedgerEntry, error) {
	return e.repo.GetLedgerEntries(address, limit)
}

func (e *Engine) publish(ctx context.Context, event events.Event) {
	if err := e.publisher.Publish(ctx, event); err != nil {
		logrus.WithFields(logrus.Fields{
			"event":  event.Type,
			"entity": event.EntityID,
			"error":  err.Error(),
		}).Error("Failed to publish event")
	}
}

func newHash(from, to string, amount int64, at time.Time) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%d", uuid.NewString(), from, to, amount, at.UnixNano())
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
