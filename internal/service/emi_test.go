package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/constants"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ledger"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/store"
)

var firstDue = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func laptopTerms() AgreementTerms {
	return AgreementTerms{
		User:          "user",
		Company:       "shop",
		Description:   "laptop",
		TotalAmount:   1200,
		MonthlyAmount: 100,
		Months:        12,
		FirstDue:      firstDue,
	}
}

func newEmiHarness(t *testing.T, opts ...harnessOption) (*harness, *model.EmiAgreement) {
	t.Helper()
	h := newHarness(t, opts...)
	h.fund(t, "user", 2000)
	h.fund(t, "shop", 0)

	a, err := h.svc.Emi.CreateAgreement(context.Background(), laptopTerms())
	require.NoError(t, err)
	return h, a
}

func TestCreateAgreement(t *testing.T) {
	h, a := newEmiHarness(t)
	assert.Equal(t, model.EmiActive, a.Status)
	assert.Equal(t, 0, a.MonthsPaid)
	assert.False(t, a.AutoPayApproved)
	assert.Equal(t, int64(0), a.AutoPayBalance)
	assert.Equal(t, firstDue, a.NextPaymentDue)
	assert.Contains(t, h.events.types(), constants.EventEmiCreated)

	terms := laptopTerms()
	terms.FirstDue = time.Time{}
	b, err := h.svc.Emi.CreateAgreement(context.Background(), terms)
	require.NoError(t, err)
	// Created on Jan 31, so the first installment falls on the last day of February.
	assert.Equal(t, time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC), b.NextPaymentDue)
}

func TestCreateAgreementValidation(t *testing.T) {
	h, _ := newEmiHarness(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*AgreementTerms)
		wantErr error
	}{
		{"zero months", func(a *AgreementTerms) { a.Months = 0 }, model.ErrInvalidAmount},
		{"product mismatch", func(a *AgreementTerms) { a.TotalAmount = 1000 }, model.ErrInvalidAmount},
		{"negative monthly", func(a *AgreementTerms) { a.MonthlyAmount = -100 }, model.ErrInvalidAmount},
		{"same party", func(a *AgreementTerms) { a.Company = "user" }, model.ErrSelfRequestNotAllowed},
		{"unknown company", func(a *AgreementTerms) { a.Company = "ghost" }, model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := laptopTerms()
			tt.mutate(&terms)
			_, err := h.svc.Emi.CreateAgreement(ctx, terms)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAutoDebitInstallment(t *testing.T) {
	h, a := newEmiHarness(t)
	ctx := context.Background()

	approved, _, err := h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 100)
	require.NoError(t, err)
	assert.True(t, approved.AutoPayApproved)
	assert.Equal(t, int64(100), approved.AutoPayBalance)
	assert.Equal(t, int64(1900), h.balance(t, "user"))
	assert.Equal(t, int64(100), h.balance(t, a.EscrowAddress()))

	out, err := h.svc.Emi.ProcessDueInstallment(ctx, a.ID, firstDue)
	require.NoError(t, err)
	assert.Equal(t, ResultPaid, out.Result)
	assert.Equal(t, 1, out.Agreement.MonthsPaid)
	assert.Equal(t, int64(0), out.Agreement.AutoPayBalance)
	assert.Equal(t, model.EmiActive, out.Agreement.Status)
	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), out.Agreement.NextPaymentDue)
	assert.Equal(t, int64(100), h.balance(t, "shop"))
	assert.Equal(t, int64(0), h.balance(t, a.EscrowAddress()))
	assert.Equal(t, int64(1900), h.balance(t, "user"))

	out, err = h.svc.Emi.ProcessDueInstallment(ctx, a.ID, firstDue.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, ResultNotDue, out.Result)

	got, err := h.svc.Emi.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MonthsPaid)
}

func TestAgreementCompletes(t *testing.T) {
	h, a := newEmiHarness(t)
	ctx := context.Background()

	_, _, err := h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 1200)
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		out, err := h.svc.Emi.ProcessDueInstallment(ctx, a.ID, model.AddMonths(firstDue, i))
		require.NoError(t, err)
		require.Equal(t, ResultPaid, out.Result, "installment %d", i+1)
	}

	got, err := h.svc.Emi.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.MonthsPaid)
	assert.Equal(t, model.EmiCompleted, got.Status)
	assert.Equal(t, int64(1200), h.balance(t, "shop"))
	assert.Contains(t, h.events.types(), constants.EventEmiCompleted)

	_, err = h.svc.Emi.ProcessDueInstallment(ctx, a.ID, model.AddMonths(firstDue, 12))
	assert.ErrorIs(t, err, model.ErrAgreementTerminal)
	_, _, err = h.svc.Emi.AddFunds(ctx, a.ID, "user", 10)
	assert.ErrorIs(t, err, model.ErrAgreementTerminal)
}

func TestDefaultWithoutAutoPay(t *testing.T) {
	h, a := newEmiHarness(t)
	ctx := context.Background()

	out, err := h.svc.Emi.ProcessDueInstallment(ctx, a.ID, firstDue.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ResultNotDue, out.Result)

	out, err = h.svc.Emi.ProcessDueInstallment(ctx, a.ID, firstDue.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ResultDefaulted, out.Result)
	assert.Equal(t, model.EmiDefaulted, out.Agreement.Status)
	assert.Contains(t, h.events.types(), constants.EventEmiDefaulted)

	_, _, err = h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 100)
	assert.ErrorIs(t, err, model.ErrAgreementTerminal)
	assert.Equal(t, int64(0), h.balance(t, "shop"))
}

func TestDefaultWithShortEscrow(t *testing.T) {
	h, a := newEmiHarness(t)
	ctx := context.Background()

	_, _, err := h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 50)
	require.NoError(t, err)

	out, err := h.svc.Emi.ProcessDueInstallment(ctx, a.ID, firstDue)
	require.NoError(t, err)
	assert.Equal(t, ResultDefaulted, out.Result)

	// Leftover escrow can still be released.
	released, txn, err := h.svc.Emi.WithdrawEscrow(ctx, a.ID, "user")
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, int64(0), released.AutoPayBalance)
	assert.Equal(t, int64(2000), h.balance(t, "user"))
}

func TestGracePeriodDelaysDefault(t *testing.T) {
	h, a := newEmiHarness(t, withConfig(func(c *Config) { c.GracePeriod = 72 * time.Hour }))
	ctx := context.Background()

	out, err := h.svc.Emi.ProcessDueInstallment(ctx, a.ID, firstDue.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ResultInGrace, out.Result)
	assert.Equal(t, model.EmiActive, out.Agreement.Status)

	// Funding inside the grace period still pays the installment.
	_, _, err = h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 100)
	require.NoError(t, err)
	out, err = h.svc.Emi.ProcessDueInstallment(ctx, a.ID, firstDue.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ResultPaid, out.Result)

	next := model.AddMonths(firstDue, 1)
	out, err = h.svc.Emi.ProcessDueInstallment(ctx, a.ID, next.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ResultDefaulted, out.Result)
}

func TestManualInstallment(t *testing.T) {
	h, a := newEmiHarness(t)
	ctx := context.Background()

	_, err := h.svc.Emi.PayInstallment(ctx, a.ID, "shop", firstDue)
	assert.ErrorIs(t, err, model.ErrNotAuthorized)

	out, err := h.svc.Emi.PayInstallment(ctx, a.ID, "user", firstDue)
	require.NoError(t, err)
	assert.Equal(t, ResultPaid, out.Result)
	assert.Equal(t, 1, out.Agreement.MonthsPaid)
	assert.Equal(t, int64(1900), h.balance(t, "user"))
	assert.Equal(t, int64(100), h.balance(t, "shop"))
	assert.Equal(t, int64(0), out.Agreement.AutoPayBalance)

	out, err = h.svc.Emi.ProcessDueInstallment(ctx, a.ID, firstDue)
	require.NoError(t, err)
	assert.Equal(t, ResultNotDue, out.Result)
}

func TestAddFundsAndWithdraw(t *testing.T) {
	h, a := newEmiHarness(t)
	ctx := context.Background()

	_, _, err := h.svc.Emi.AddFunds(ctx, a.ID, "user", 100)
	assert.ErrorIs(t, err, model.ErrNotAuthorized)

	_, _, err = h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 5000)
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)
	assert.Equal(t, int64(2000), h.balance(t, "user"))

	_, _, err = h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 0)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, _, err = h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 200)
	require.NoError(t, err)
	funded, _, err := h.svc.Emi.AddFunds(ctx, a.ID, "user", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(300), funded.AutoPayBalance)
	assert.Equal(t, int64(300), h.balance(t, a.EscrowAddress()))

	_, _, err = h.svc.Emi.WithdrawEscrow(ctx, a.ID, "shop")
	assert.ErrorIs(t, err, model.ErrNotAuthorized)

	withdrawn, txn, err := h.svc.Emi.WithdrawEscrow(ctx, a.ID, "user")
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.False(t, withdrawn.AutoPayApproved)
	assert.Equal(t, int64(0), withdrawn.AutoPayBalance)
	assert.Equal(t, int64(2000), h.balance(t, "user"))
	assert.Equal(t, int64(0), h.balance(t, a.EscrowAddress()))
}

func TestProcessAllDue(t *testing.T) {
	h, funded := newEmiHarness(t)
	ctx := context.Background()

	unfunded, err := h.svc.Emi.CreateAgreement(ctx, laptopTerms())
	require.NoError(t, err)
	later := laptopTerms()
	later.FirstDue = firstDue.AddDate(0, 2, 0)
	notDue, err := h.svc.Emi.CreateAgreement(ctx, later)
	require.NoError(t, err)

	_, _, err = h.svc.Emi.ApproveAutoPay(ctx, funded.ID, "user", 100)
	require.NoError(t, err)

	outcomes, err := h.svc.Emi.ProcessAllDue(ctx, firstDue)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	results := map[string]InstallmentResult{}
	for _, o := range outcomes {
		require.NoError(t, o.Err)
		results[o.AgreementID] = o.Result
	}
	assert.Equal(t, ResultPaid, results[funded.ID])
	assert.Equal(t, ResultDefaulted, results[unfunded.ID])
	assert.NotContains(t, results, notDue.ID)
}

func TestPendingAutoDebitSettles(t *testing.T) {
	auth := &flakyAuthority{}
	h, a := newEmiHarness(t, withAuthority(auth))
	ctx := context.Background()

	_, _, err := h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 200)
	require.NoError(t, err)

	auth.setUnreachable(true)
	out, err := h.svc.Emi.ProcessDueInstallment(ctx, a.ID, firstDue)
	assert.ErrorIs(t, err, model.ErrConfirmationUnknown)
	assert.Equal(t, ResultPending, out.Result)
	require.NotNil(t, out.Transaction)

	got, err := h.svc.Emi.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.MonthsPaid)
	assert.Equal(t, int64(100), got.AutoPayBalance)
	require.NotNil(t, got.Pending)
	assert.Equal(t, model.PurposeAutoDebit, got.Pending.Purpose)

	_, err = h.svc.Emi.ProcessDueInstallment(ctx, a.ID, firstDue)
	assert.ErrorIs(t, err, model.ErrTransferInFlight)

	_, err = h.svc.Account.Settle(ctx, out.Transaction.Hash, true)
	require.NoError(t, err)

	got, err = h.svc.Emi.Get(a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Pending)
	assert.Equal(t, 1, got.MonthsPaid)
	assert.Equal(t, int64(100), h.balance(t, "shop"))
	assert.Equal(t, got.AutoPayBalance, h.balance(t, a.EscrowAddress()))
}

func TestPendingDepositFails(t *testing.T) {
	auth := &flakyAuthority{}
	h, a := newEmiHarness(t, withAuthority(auth))
	ctx := context.Background()

	auth.setUnreachable(true)
	_, txn, err := h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 300)
	require.ErrorIs(t, err, model.ErrConfirmationUnknown)
	assert.Equal(t, int64(1700), h.balance(t, "user"))

	_, err = h.svc.Account.Settle(ctx, txn.Hash, false)
	require.NoError(t, err)

	got, err := h.svc.Emi.Get(a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Pending)
	assert.Equal(t, int64(0), got.AutoPayBalance)
	assert.Equal(t, int64(2000), h.balance(t, "user"))
	assert.Equal(t, int64(0), h.balance(t, a.EscrowAddress()))
}

func TestAgreementListings(t *testing.T) {
	h, a := newEmiHarness(t)

	byUser, err := h.svc.Emi.ListByUser("user")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, a.ID, byUser[0].ID)

	byCompany, err := h.svc.Emi.ListByCompany("shop")
	require.NoError(t, err)
	assert.Len(t, byCompany, 1)

	_, err = h.svc.Emi.Get("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEscrowDrainedOutsideAgreement(t *testing.T) {
	h, a := newEmiHarness(t)
	ctx := context.Background()
	h.fund(t, "thief", 0)

	_, _, err := h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 100)
	require.NoError(t, err)

	_, err = h.svc.Account.Send(ctx, a.EscrowAddress(), "thief", 100, "")
	assert.ErrorIs(t, err, model.ErrNotAuthorized)
	assert.Equal(t, int64(100), h.balance(t, a.EscrowAddress()))

	// Move the funds below the manager, straight through the engine.
	_, err = h.engine.ExecuteTransfer(ctx, a.EscrowAddress(), "thief", 100, "")
	require.NoError(t, err)

	out, err := h.svc.Emi.ProcessDueInstallment(ctx, a.ID, firstDue)
	require.NoError(t, err)
	assert.Equal(t, ResultDefaulted, out.Result)
	assert.Equal(t, int64(0), out.Agreement.AutoPayBalance)

	got, err := h.svc.Emi.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EmiDefaulted, got.Status)
	assert.Equal(t, int64(0), got.AutoPayBalance)
	assert.Equal(t, int64(0), h.balance(t, "shop"))
}

func TestEscrowAddressCannotBeParty(t *testing.T) {
	h, a := newEmiHarness(t)
	ctx := context.Background()

	_, _, err := h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 100)
	require.NoError(t, err)

	terms := laptopTerms()
	terms.User = a.EscrowAddress()
	_, err = h.svc.Emi.CreateAgreement(ctx, terms)
	assert.ErrorIs(t, err, model.ErrNotAuthorized)

	terms = laptopTerms()
	terms.Company = a.EscrowAddress()
	_, err = h.svc.Emi.CreateAgreement(ctx, terms)
	assert.ErrorIs(t, err, model.ErrNotAuthorized)
}

func TestDepositOverflow(t *testing.T) {
	h, a := newEmiHarness(t)
	ctx := context.Background()

	_, _, err := h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 100)
	require.NoError(t, err)

	stored, err := h.repo.GetEmiAgreement(a.ID)
	require.NoError(t, err)
	_, _, err = h.svc.Emi.deposit(ctx, stored, math.MaxInt64, false)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
	assert.Equal(t, int64(1900), h.balance(t, "user"))
	assert.Equal(t, int64(100), h.balance(t, a.EscrowAddress()))
}

func TestRefusedInstallmentFails(t *testing.T) {
	h, a := newEmiHarness(t)
	ctx := context.Background()

	_, err := h.svc.Account.Send(ctx, "user", "shop", 1950, "")
	require.NoError(t, err)

	out, err := h.svc.Emi.PayInstallment(ctx, a.ID, "user", firstDue)
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)
	assert.Equal(t, ResultFailed, out.Result)
	assert.Equal(t, "failed", out.Result.String())
	require.NotNil(t, out.Agreement)
	assert.Equal(t, 0, out.Agreement.MonthsPaid)
	assert.Nil(t, out.Transaction)
}

// failingAgreements refuses every agreement update, inside transactions too.
type failingAgreements struct {
	store.Repository
}

func (f failingAgreements) UpdateEmiAgreement(*model.EmiAgreement) error {
	return errors.New("disk full")
}

func (f failingAgreements) ExecTx(fn func(store.Repository) error) error {
	return f.Repository.ExecTx(func(tx store.Repository) error {
		return fn(failingAgreements{tx})
	})
}

func TestFailedUpdateKeepsLoadedAgreement(t *testing.T) {
	h, a := newEmiHarness(t)
	ctx := context.Background()

	repo := failingAgreements{h.repo}
	clock := func() time.Time { return testNow }
	engine := ledger.NewEngine(repo, ledger.WithClock(clock), ledger.WithPublisher(h.events))
	emi := NewEmiService(repo, engine, notifier{publisher: h.events, now: clock}, testConfig(t))

	out, err := emi.PayInstallment(ctx, a.ID, "user", firstDue)
	require.Error(t, err)
	assert.Equal(t, ResultFailed, out.Result)
	require.NotNil(t, out.Agreement)
	assert.Equal(t, 0, out.Agreement.MonthsPaid)
	assert.Equal(t, firstDue, out.Agreement.NextPaymentDue)
	assert.Nil(t, out.Agreement.Pending)

	assert.Equal(t, int64(2000), h.balance(t, "user"))
	assert.Equal(t, int64(0), h.balance(t, "shop"))
}

func TestProcessAllDueReportsFailures(t *testing.T) {
	h, funded := newEmiHarness(t)
	ctx := context.Background()

	unfunded, err := h.svc.Emi.CreateAgreement(ctx, laptopTerms())
	require.NoError(t, err)
	_, _, err = h.svc.Emi.ApproveAutoPay(ctx, funded.ID, "user", 100)
	require.NoError(t, err)

	repo := failingAgreements{h.repo}
	clock := func() time.Time { return testNow }
	engine := ledger.NewEngine(repo, ledger.WithClock(clock), ledger.WithPublisher(h.events))
	emi := NewEmiService(repo, engine, notifier{publisher: h.events, now: clock}, testConfig(t))

	outcomes, err := emi.ProcessAllDue(ctx, firstDue)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.Error(t, o.Err)
		assert.Equal(t, ResultFailed, o.Result, o.AgreementID)
		require.NotNil(t, o.Agreement)
		assert.Equal(t, model.EmiActive, o.Agreement.Status)
	}

	got, err := h.svc.Emi.Get(unfunded.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EmiActive, got.Status)
	assert.Equal(t, int64(100), h.balance(t, funded.EscrowAddress()))
}

func TestProcessAllDueInFlight(t *testing.T) {
	auth := &flakyAuthority{}
	h, a := newEmiHarness(t, withAuthority(auth))
	ctx := context.Background()

	auth.setUnreachable(true)
	_, _, err := h.svc.Emi.ApproveAutoPay(ctx, a.ID, "user", 100)
	require.ErrorIs(t, err, model.ErrConfirmationUnknown)

	outcomes, err := h.svc.Emi.ProcessAllDue(ctx, firstDue)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, ResultPending, outcomes[0].Result)
	assert.ErrorIs(t, outcomes[0].Err, model.ErrTransferInFlight)
}
