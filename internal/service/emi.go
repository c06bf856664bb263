package service

import (
	"context"
	"errors"
	"fmt"
	"math"
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

type AgreementTerms struct {
	User          string
	Company       string
	Description   string
	TotalAmount   int64
	MonthlyAmount int64
	Months        int
	// FirstDue defaults to one calendar month after creation.
	FirstDue time.Time
}

// InstallmentResult describes what one due-date check did.
type InstallmentResult int

const (
	ResultNotDue InstallmentResult = iota
	ResultPaid
	ResultPending
	ResultInGrace
	ResultDefaulted
	// ResultFailed means the installment transfer was refused and nothing
	// was recorded. The outcome error says why.
	ResultFailed
)

func (r InstallmentResult) String() string {
	switch r {
	case ResultNotDue:
		return "not due"
	case ResultPaid:
		return "paid"
	case ResultPending:
		return "pending"
	case ResultInGrace:
		return "in grace period"
	case ResultDefaulted:
		return "defaulted"
	case ResultFailed:
		return "failed"
	default:
		return fmt.Sprintf("InstallmentResult(%d)", int(r))
	}
}

type InstallmentOutcome struct {
	AgreementID string
	Result      InstallmentResult
	Agreement   *model.EmiAgreement
	Transaction *model.Transaction
	Err         error
}

type EmiService struct {
	repo   store.Repository
	engine *ledger.Engine
	locks  *ledger.Locker
	notify notifier
	grace  time.Duration
}

func NewEmiService(repo store.Repository, engine *ledger.Engine, n notifier, cfg Config) *EmiService {
	return &EmiService{repo: repo, engine: engine, locks: ledger.NewLocker(), notify: n, grace: cfg.GracePeriod}
}

func (es *EmiService) lock(id string) func() {
	return es.locks.Lock(constants.LockPrefixEmi + id)
}

func (es *EmiService) CreateAgreement(ctx context.Context, terms AgreementTerms) (*model.EmiAgreement, error) {
	terms.User = strings.TrimSpace(terms.User)
	terms.Company = strings.TrimSpace(terms.Company)

	if terms.Months <= 0 || terms.MonthlyAmount <= 0 || terms.TotalAmount <= 0 {
		return nil, fmt.Errorf("EMI of %d x %d for %d: %w", terms.Months, terms.MonthlyAmount, terms.TotalAmount, model.ErrInvalidAmount)
	}
	if terms.TotalAmount%int64(terms.Months) != 0 || terms.TotalAmount/int64(terms.Months) != terms.MonthlyAmount {
		return nil, fmt.Errorf("%d months of %d do not make %d: %w", terms.Months, terms.MonthlyAmount, terms.TotalAmount, model.ErrInvalidAmount)
	}
	if terms.User == terms.Company {
		return nil, fmt.Errorf("EMI between %s and itself: %w", terms.User, model.ErrSelfRequestNotAllowed)
	}
	if err := rejectEscrow(terms.User, terms.Company); err != nil {
		return nil, err
	}
	if err := validation.ValidateDescription(terms.Description); err != nil {
		return nil, err
	}
	for _, address := range []string{terms.User, terms.Company} {
		exists, err := es.repo.AccountExists(address)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("account %s: %w", address, model.ErrNotFound)
		}
	}

	now := es.notify.now().UTC()
	first := terms.FirstDue
	if first.IsZero() {
		first = model.AddMonths(now, 1)
	}
	first = first.UTC()

	a := &model.EmiAgreement{
		ID:              uuid.NewString(),
		User:            terms.User,
		Company:         terms.Company,
		Description:     terms.Description,
		TotalAmount:     terms.TotalAmount,
		MonthlyAmount:   terms.MonthlyAmount,
		Months:          terms.Months,
		FirstPaymentDue: first,
		NextPaymentDue:  first,
		Status:          model.EmiActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := es.repo.CreateEmiAgreement(a); err != nil {
		return nil, fmt.Errorf("failed to create EMI agreement: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"agreement": a.ID,
		"user":      a.User,
		"company":   a.Company,
		"monthly":   a.MonthlyAmount,
		"months":    a.Months,
	}).Info("EMI agreement created")
	es.notify.emit(ctx, constants.EventEmiCreated, a.ID, agreementPayload(a, ""))
	return a, nil
}

// load reads the agreement and checks it can still be mutated. The caller
// holds the agreement lock.
func (es *EmiService) load(id string) (*model.EmiAgreement, error) {
	a, err := es.repo.GetEmiAgreement(id)
	if err != nil {
		return nil, err
	}
	if a.Pending != nil {
		return nil, fmt.Errorf("agreement %s waits for transfer %s: %w", id, a.Pending.Hash, model.ErrTransferInFlight)
	}
	return a, nil
}

func checkActive(a *model.EmiAgreement) error {
	if a.IsTerminal() {
		return fmt.Errorf("agreement %s is %s: %w", a.ID, a.Status, model.ErrAgreementTerminal)
	}
	return nil
}

func checkUser(a *model.EmiAgreement, acting string) error {
	if acting != a.User {
		return fmt.Errorf("%s is not the user of agreement %s: %w", acting, a.ID, model.ErrNotAuthorized)
	}
	return nil
}

// ApproveAutoPay moves deposit from the user into the agreement escrow and
// enables automatic debits. Approving again only adds the deposit.
func (es *EmiService) ApproveAutoPay(ctx context.Context, id, acting string, deposit int64) (*model.EmiAgreement, *model.Transaction, error) {
	defer es.lock(id)()

	a, err := es.load(id)
	if err != nil {
		return nil, nil, err
	}
	if err := checkUser(a, acting); err != nil {
		return nil, nil, err
	}
	if err := checkActive(a); err != nil {
		return nil, nil, err
	}
	return es.deposit(ctx, a, deposit, true)
}

// AddFunds tops up the escrow of an agreement with auto-pay approved.
func (es *EmiService) AddFunds(ctx context.Context, id, acting string, amount int64) (*model.EmiAgreement, *model.Transaction, error) {
	defer es.lock(id)()

	a, err := es.load(id)
	if err != nil {
		return nil, nil, err
	}
	if err := checkUser(a, acting); err != nil {
		return nil, nil, err
	}
	if err := checkActive(a); err != nil {
		return nil, nil, err
	}
	if !a.AutoPayApproved {
		return nil, nil, fmt.Errorf("auto-pay of agreement %s is not approved: %w", id, model.ErrNotAuthorized)
	}
	return es.deposit(ctx, a, amount, false)
}

func (es *EmiService) deposit(ctx context.Context, a *model.EmiAgreement, amount int64, approve bool) (*model.EmiAgreement, *model.Transaction, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf("deposit of %d: %w", amount, model.ErrInvalidAmount)
	}
	if a.AutoPayBalance > math.MaxInt64-amount {
		return nil, nil, fmt.Errorf("deposit of %d overflows escrow of %d: %w", amount, a.AutoPayBalance, model.ErrInvalidAmount)
	}

	escrow := a.EscrowAddress()
	var txn *model.Transaction
	err := es.engine.Atomically(ctx, []string{a.User, escrow}, func(op *ledger.Op) error {
		if err := op.EnsureAccount(escrow); err != nil {
			return err
		}
		var err error
		txn, err = op.Transfer(a.User, escrow, amount, "EMI "+a.ID+" escrow deposit")
		if err != nil {
			return err
		}
		if approve {
			a.AutoPayApproved = true
		}
		if txn.Status == model.TxConfirmed {
			a.AutoPayBalance += amount
		} else {
			a.Pending = &model.PendingTransfer{Hash: txn.Hash, Purpose: model.PurposeDeposit, Amount: amount}
		}
		a.UpdatedAt = op.Now()
		return op.Repo().UpdateEmiAgreement(a)
	})
	if err != nil {
		return nil, nil, err
	}

	logrus.WithFields(logrus.Fields{
		"agreement": a.ID,
		"amount":    amount,
		"escrow":    a.AutoPayBalance,
		"hash":      txn.Hash,
	}).Info("EMI escrow deposit")
	if txn.Status == model.TxPending {
		return a, txn, ledger.PendingError(txn.Hash)
	}
	return a, txn, nil
}

// ProcessDueInstallment pays one installment from escrow when it is due. An
// agreement that is due without enough escrow defaults once the grace
// period has passed. Calling it again before the next due date is a no-op.
func (es *EmiService) ProcessDueInstallment(ctx context.Context, id string, now time.Time) (InstallmentOutcome, error) {
	defer es.lock(id)()

	out := InstallmentOutcome{AgreementID: id}
	a, err := es.load(id)
	if err != nil {
		return out, err
	}
	out.Agreement = a
	if err := checkActive(a); err != nil {
		return out, err
	}
	if now.Before(a.NextPaymentDue) {
		out.Result = ResultNotDue
		return out, nil
	}

	// The escrow account is authoritative. A recorded balance above what it
	// holds is lowered before deciding.
	escrow := a.EscrowAddress()
	held, err := es.engine.GetBalance(escrow)
	if err != nil {
		return out, err
	}
	if held < a.AutoPayBalance {
		logrus.WithFields(logrus.Fields{
			"agreement": a.ID,
			"recorded":  a.AutoPayBalance,
			"held":      held,
		}).Warn("EMI escrow holds less than recorded")
		a.AutoPayBalance = held
	}

	if !a.AutoPayApproved || a.AutoPayBalance < a.MonthlyAmount {
		if now.Before(a.NextPaymentDue.Add(es.grace)) {
			out.Result = ResultInGrace
			return out, nil
		}
		loaded := *a
		a.Status = model.EmiDefaulted
		a.UpdatedAt = now.UTC()
		if err := es.repo.UpdateEmiAgreement(a); err != nil {
			*a = loaded
			return out, err
		}
		out.Result = ResultDefaulted
		logrus.WithFields(logrus.Fields{
			"agreement": a.ID,
			"due":       a.NextPaymentDue,
			"escrow":    a.AutoPayBalance,
		}).Warn("EMI agreement defaulted")
		es.notify.emit(ctx, constants.EventEmiDefaulted, a.ID, agreementPayload(a, ""))
		return out, nil
	}

	return es.payInstallment(ctx, a, escrow, []string{escrow, a.Company}, model.PurposeAutoDebit, now)
}

// PayInstallment is the manual path: the user pays the next installment
// straight from their balance, leaving the escrow untouched.
func (es *EmiService) PayInstallment(ctx context.Context, id, acting string, now time.Time) (InstallmentOutcome, error) {
	defer es.lock(id)()

	out := InstallmentOutcome{AgreementID: id}
	a, err := es.load(id)
	if err != nil {
		return out, err
	}
	out.Agreement = a
	if err := checkUser(a, acting); err != nil {
		return out, err
	}
	if err := checkActive(a); err != nil {
		return out, err
	}
	return es.payInstallment(ctx, a, a.User, []string{a.User, a.Company}, model.PurposeManual, now)
}

func (es *EmiService) payInstallment(ctx context.Context, a *model.EmiAgreement, payer string, locks []string, purpose model.PendingPurpose, now time.Time) (InstallmentOutcome, error) {
	loaded := *a
	out := InstallmentOutcome{AgreementID: a.ID, Agreement: a}
	note := fmt.Sprintf("EMI %s installment %d/%d", a.ID, a.MonthsPaid+1, a.Months)

	var txn *model.Transaction
	err := es.engine.Atomically(ctx, locks, func(op *ledger.Op) error {
		var err error
		txn, err = op.Transfer(payer, a.Company, a.MonthlyAmount, note)
		if err != nil {
			return err
		}
		if purpose == model.PurposeAutoDebit {
			a.AutoPayBalance -= a.MonthlyAmount
		}
		if txn.Status == model.TxConfirmed {
			a.RecordInstallment()
		} else {
			a.Pending = &model.PendingTransfer{Hash: txn.Hash, Purpose: purpose, Amount: a.MonthlyAmount}
		}
		a.UpdatedAt = now.UTC()
		return op.Repo().UpdateEmiAgreement(a)
	})
	if err != nil {
		*a = loaded
		out.Result = ResultFailed
		return out, err
	}
	out.Transaction = txn

	if txn.Status == model.TxPending {
		out.Result = ResultPending
		return out, ledger.PendingError(txn.Hash)
	}
	out.Result = ResultPaid
	es.installmentPaid(ctx, a, txn.Hash)
	return out, nil
}

func (es *EmiService) installmentPaid(ctx context.Context, a *model.EmiAgreement, hash string) {
	logrus.WithFields(logrus.Fields{
		"agreement":   a.ID,
		"months_paid": a.MonthsPaid,
		"months":      a.Months,
		"hash":        hash,
	}).Info("EMI installment paid")
	es.notify.emit(ctx, constants.EventEmiInstallmentPaid, a.ID, agreementPayload(a, hash))
	if a.Status == model.EmiCompleted {
		es.notify.emit(ctx, constants.EventEmiCompleted, a.ID, agreementPayload(a, hash))
	}
}

// ProcessAllDue checks every active agreement that is due at now. Each
// agreement is processed once; errors are reported per outcome.
func (es *EmiService) ProcessAllDue(ctx context.Context, now time.Time) ([]InstallmentOutcome, error) {
	due, err := es.repo.ListDueEmiAgreements(now)
	if err != nil {
		return nil, err
	}

	outcomes := make([]InstallmentOutcome, 0, len(due))
	for _, a := range due {
		out, err := es.ProcessDueInstallment(ctx, a.ID, now)
		if err != nil && out.Result == ResultNotDue {
			out.Result = ResultFailed
			if errors.Is(err, model.ErrTransferInFlight) {
				out.Result = ResultPending
			}
		}
		out.Err = err
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// WithdrawEscrow returns the escrow to the user. On an active agreement it
// also revokes auto-pay; on a terminal one it releases leftover funds.
func (es *EmiService) WithdrawEscrow(ctx context.Context, id, acting string) (*model.EmiAgreement, *model.Transaction, error) {
	defer es.lock(id)()

	a, err := es.load(id)
	if err != nil {
		return nil, nil, err
	}
	if err := checkUser(a, acting); err != nil {
		return nil, nil, err
	}

	amount := a.AutoPayBalance
	revoke := !a.IsTerminal()
	if amount == 0 {
		if revoke && a.AutoPayApproved {
			a.AutoPayApproved = false
			a.UpdatedAt = es.notify.now().UTC()
			if err := es.repo.UpdateEmiAgreement(a); err != nil {
				return nil, nil, err
			}
			logrus.WithField("agreement", a.ID).Info("EMI auto-pay revoked")
		}
		return a, nil, nil
	}

	escrow := a.EscrowAddress()
	var txn *model.Transaction
	err = es.engine.Atomically(ctx, []string{escrow, a.User}, func(op *ledger.Op) error {
		var err error
		txn, err = op.Transfer(escrow, a.User, amount, "EMI "+a.ID+" escrow withdrawal")
		if err != nil {
			return err
		}
		a.AutoPayBalance = 0
		if revoke {
			a.AutoPayApproved = false
		}
		if txn.Status == model.TxPending {
			a.Pending = &model.PendingTransfer{Hash: txn.Hash, Purpose: model.PurposeWithdrawal, Amount: amount}
		}
		a.UpdatedAt = op.Now()
		return op.Repo().UpdateEmiAgreement(a)
	})
	if err != nil {
		return nil, nil, err
	}

	logrus.WithFields(logrus.Fields{
		"agreement": a.ID,
		"amount":    amount,
		"hash":      txn.Hash,
	}).Info("EMI escrow withdrawn")
	if txn.Status == model.TxPending {
		return a, txn, ledger.PendingError(txn.Hash)
	}
	return a, txn, nil
}

// onTransferSettled applies the effect of an agreement transfer that was
// pending when it was made.
func (es *EmiService) onTransferSettled(ctx context.Context, ev events.Event) error {
	settled, ok := ev.Payload.(events.TransferSettled)
	if !ok {
		return nil
	}
	found, err := es.repo.GetEmiAgreementByTransferHash(settled.Hash)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	defer es.lock(found.ID)()

	a, err := es.repo.GetEmiAgreement(found.ID)
	if err != nil {
		return err
	}
	pending := a.Pending
	if pending == nil || pending.Hash != settled.Hash {
		return nil
	}
	confirmed := settled.Status == model.TxConfirmed.String()

	switch pending.Purpose {
	case model.PurposeDeposit:
		if confirmed {
			a.AutoPayBalance += pending.Amount
		}
	case model.PurposeAutoDebit:
		if confirmed {
			a.RecordInstallment()
		} else {
			a.AutoPayBalance += pending.Amount
		}
	case model.PurposeManual:
		if confirmed {
			a.RecordInstallment()
		}
	case model.PurposeWithdrawal:
		if !confirmed {
			a.AutoPayBalance += pending.Amount
		}
	default:
		return fmt.Errorf("agreement %s has unknown pending purpose %q", a.ID, pending.Purpose)
	}
	a.Pending = nil
	a.UpdatedAt = ev.OccurredAt.UTC()
	if err := es.repo.UpdateEmiAgreement(a); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"agreement": a.ID,
		"purpose":   string(pending.Purpose),
		"status":    settled.Status,
	}).Info("EMI transfer settled")
	if confirmed && (pending.Purpose == model.PurposeAutoDebit || pending.Purpose == model.PurposeManual) {
		es.installmentPaid(ctx, a, settled.Hash)
	}
	return nil
}

func (es *EmiService) Get(id string) (*model.EmiAgreement, error) {
	return es.repo.GetEmiAgreement(id)
}

func (es *EmiService) ListByUser(address string) ([]*model.EmiAgreement, error) {
	return es.repo.ListEmiAgreementsByUser(address)
}

func (es *EmiService) ListByCompany(address string) ([]*model.EmiAgreement, error) {
	return es.repo.ListEmiAgreementsByCompany(address)
}

func agreementPayload(a *model.EmiAgreement, hash string) events.AgreementChanged {
	return events.AgreementChanged{
		AgreementID:  a.ID,
		User:         a.User,
		Company:      a.Company,
		Status:       a.Status.String(),
		MonthsPaid:   a.MonthsPaid,
		Months:       a.Months,
		NextDue:      a.NextPaymentDue,
		TransferHash: hash,
	}
}
