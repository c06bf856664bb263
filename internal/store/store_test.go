package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

var epoch = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

func forEachStore(t *testing.T, run func(t *testing.T, repo Repository)) {
	t.Run("sqlite", func(t *testing.T) {
		s, err := NewStore(filepath.Join(t.TempDir(), "wallet.db"), os.DirFS("../.."))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		run(t, s)
	})
	t.Run("memory", func(t *testing.T) {
		run(t, NewMemoryStore())
	})
}

func seedAccounts(t *testing.T, repo Repository, addresses ...string) {
	t.Helper()
	for _, a := range addresses {
		require.NoError(t, repo.CreateAccount(&model.Account{Address: a, CreatedAt: epoch}))
	}
}

func TestAccounts(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo Repository) {
		seedAccounts(t, repo, "bob", "alice")

		err := repo.CreateAccount(&model.Account{Address: "alice", CreatedAt: epoch})
		assert.ErrorIs(t, err, model.ErrAccountExists)

		require.NoError(t, repo.UpdateBalance("alice", 250))
		acc, err := repo.GetAccount("alice")
		require.NoError(t, err)
		assert.Equal(t, int64(250), acc.Balance)
		assert.True(t, acc.CreatedAt.Equal(epoch))

		ok, err := repo.AccountExists("carol")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = repo.GetAccount("carol")
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.ErrorIs(t, repo.UpdateBalance("carol", 1), model.ErrNotFound)

		assert.ErrorIs(t, repo.UpdateBalance("alice", -1), ErrConstraintViolation)

		accounts, err := repo.ListAccounts()
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "alice", accounts[0].Address)
	})
}

func TestTransactionsAndLedger(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo Repository) {
		seedAccounts(t, repo, "alice", "bob")

		first := &model.Transaction{Hash: "0x01", From: "alice", To: "bob", Amount: 10, Timestamp: epoch, Status: model.TxConfirmed}
		second := &model.Transaction{Hash: "0x02", From: "bob", To: "alice", Amount: 4, Timestamp: epoch.Add(time.Minute), Status: model.TxPending, Note: "refund"}
		for _, tx := range []*model.Transaction{first, second} {
			require.NoError(t, repo.CreateTransaction(tx))
			require.NoError(t, repo.AppendLedgerEntry(tx.From, tx.Hash, tx.KindFor(tx.From)))
			require.NoError(t, repo.AppendLedgerEntry(tx.To, tx.Hash, tx.KindFor(tx.To)))
		}

		assert.ErrorIs(t, repo.CreateTransaction(first), ErrConstraintViolation)

		got, err := repo.GetTransaction("0x02")
		require.NoError(t, err)
		assert.Equal(t, "refund", got.Note)
		assert.Equal(t, model.TxPending, got.Status)

		entries, err := repo.GetLedgerEntries("alice", 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "0x02", entries[0].Transaction.Hash)
		assert.Equal(t, model.KindReceived, entries[0].Kind)
		assert.Equal(t, model.KindSent, entries[1].Kind)
		assert.Greater(t, entries[0].Seq, entries[1].Seq)

		limited, err := repo.GetLedgerEntries("alice", 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)

		pending, err := repo.ListTransactionsByStatus(model.TxPending)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		require.NoError(t, repo.UpdateTransactionStatus("0x02", model.TxConfirmed))
		assert.ErrorIs(t, repo.UpdateTransactionStatus("0x02", model.TxFailed), model.ErrNotFound)

		assert.ErrorIs(t, repo.AppendLedgerEntry("alice", "0xmissing", model.KindSent), model.ErrNotFound)
	})
}

func TestExecTxRollback(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo Repository) {
		seedAccounts(t, repo, "alice")

		boom := errors.New("boom")
		err := repo.ExecTx(func(tx Repository) error {
			if err := tx.UpdateBalance("alice", 99); err != nil {
				return err
			}
			// Nested calls join the outer transaction.
			return tx.ExecTx(func(inner Repository) error {
				if err := inner.CreateAccount(&model.Account{Address: "bob", CreatedAt: epoch}); err != nil {
					return err
				}
				return boom
			})
		})
		assert.ErrorIs(t, err, boom)

		acc, err := repo.GetAccount("alice")
		require.NoError(t, err)
		assert.Equal(t, int64(0), acc.Balance)
		ok, err := repo.AccountExists("bob")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, repo.ExecTx(func(tx Repository) error {
			return tx.UpdateBalance("alice", 7)
		}))
		acc, err = repo.GetAccount("alice")
		require.NoError(t, err)
		assert.Equal(t, int64(7), acc.Balance)
	})
}

func TestPaymentRequests(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo Repository) {
		req := &model.PaymentRequest{
			ID: "r1", From: "bob", To: "alice", Amount: 30,
			Description: "dinner", CreatedAt: epoch, Status: model.RequestPending,
		}
		require.NoError(t, repo.CreatePaymentRequest(req))
		require.NoError(t, repo.CreatePaymentRequest(&model.PaymentRequest{
			ID: "r2", From: "bob", To: "carol", Amount: 5, CreatedAt: epoch.Add(time.Hour), Status: model.RequestPending,
		}))

		incoming, err := repo.ListRequestsByPayer("bob")
		require.NoError(t, err)
		require.Len(t, incoming, 2)
		assert.Equal(t, "r2", incoming[0].ID)

		outgoing, err := repo.ListRequestsByPayee("alice")
		require.NoError(t, err)
		require.Len(t, outgoing, 1)

		resolved := epoch.Add(2 * time.Hour)
		req.Status = model.RequestPaid
		req.TransferHash = "0xpay"
		req.ResolvedAt = &resolved
		require.NoError(t, repo.UpdatePaymentRequest(req))

		got, err := repo.GetPaymentRequest("r1")
		require.NoError(t, err)
		assert.Equal(t, model.RequestPaid, got.Status)
		require.NotNil(t, got.ResolvedAt)
		assert.True(t, got.ResolvedAt.Equal(resolved))

		byHash, err := repo.GetRequestByTransferHash("0xpay")
		require.NoError(t, err)
		assert.Equal(t, "r1", byHash.ID)

		_, err = repo.GetPaymentRequest("nope")
		assert.ErrorIs(t, err, model.ErrNotFound)
		_, err = repo.GetRequestByTransferHash("0xnope")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestBillSplits(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo Repository) {
		split := &model.BillSplit{
			ID: "s1", OriginalTxHash: "0xbill", CreatedBy: "alice",
			TotalAmount: 100, CreatorShare: 1, Description: "dinner",
			Participants: []model.BillParticipant{
				{Address: "bob", Amount: 33, PaymentRequestID: "r1"},
				{Address: "carol", Amount: 33, PaymentRequestID: "r2"},
				{Address: "dave", Amount: 33, LinkError: "no account"},
			},
			Status:    model.SplitPending,
			CreatedAt: epoch,
		}
		require.NoError(t, repo.CreateBillSplit(split))

		got, err := repo.GetBillSplit("s1")
		require.NoError(t, err)
		require.Len(t, got.Participants, 3)
		assert.Equal(t, "bob", got.Participants[0].Address)
		assert.Equal(t, "no account", got.Participants[2].LinkError)
		assert.False(t, got.Participants[2].Linked())

		paidAt := epoch.Add(time.Hour)
		got.Participants[0].Status = model.ParticipantPaid
		got.Participants[0].PaidAt = &paidAt
		got.Participants[0].TransactionHash = "0xp1"
		got.Refresh()
		require.NoError(t, repo.UpdateBillSplit(got))

		byReq, err := repo.GetBillSplitByRequest("r1")
		require.NoError(t, err)
		assert.Equal(t, model.SplitPartial, byReq.Status)
		assert.Equal(t, model.ParticipantPaid, byReq.Participants[0].Status)
		assert.Equal(t, "0xp1", byReq.Participants[0].TransactionHash)

		byCreator, err := repo.ListBillSplitsByCreator("alice")
		require.NoError(t, err)
		assert.Len(t, byCreator, 1)

		byParticipant, err := repo.ListBillSplitsByParticipant("carol")
		require.NoError(t, err)
		assert.Len(t, byParticipant, 1)

		none, err := repo.ListBillSplitsByParticipant("erin")
		require.NoError(t, err)
		assert.Empty(t, none)

		_, err = repo.GetBillSplitByRequest("r9")
		assert.ErrorIs(t, err, model.ErrNotFound)

		dup := &model.BillSplit{
			ID: "s2", CreatedBy: "alice", TotalAmount: 10, CreatedAt: epoch,
			Participants: []model.BillParticipant{{Address: "bob", Amount: 5}, {Address: "bob", Amount: 5}},
		}
		err = repo.ExecTx(func(tx Repository) error { return tx.CreateBillSplit(dup) })
		assert.ErrorIs(t, err, ErrConstraintViolation)
	})
}

func TestEmiAgreements(t *testing.T) {
	forEachStore(t, func(t *testing.T, repo Repository) {
		due := epoch.AddDate(0, 1, 0)
		agreement := &model.EmiAgreement{
			ID: "e1", User: "alice", Company: "shop", Description: "laptop",
			TotalAmount: 1200, MonthlyAmount: 100, Months: 12,
			FirstPaymentDue: due, NextPaymentDue: due,
			Status: model.EmiActive, CreatedAt: epoch, UpdatedAt: epoch,
		}
		require.NoError(t, repo.CreateEmiAgreement(agreement))
		require.NoError(t, repo.CreateEmiAgreement(&model.EmiAgreement{
			ID: "e2", User: "alice", Company: "gym", TotalAmount: 60, MonthlyAmount: 20, Months: 3,
			FirstPaymentDue: due.AddDate(0, 2, 0), NextPaymentDue: due.AddDate(0, 2, 0),
			Status: model.EmiActive, CreatedAt: epoch.Add(time.Second), UpdatedAt: epoch,
		}))

		dueNow, err := repo.ListDueEmiAgreements(due)
		require.NoError(t, err)
		require.Len(t, dueNow, 1)
		assert.Equal(t, "e1", dueNow[0].ID)

		agreement.AutoPayApproved = true
		agreement.AutoPayBalance = 300
		agreement.Pending = &model.PendingTransfer{Hash: "0xdep", Purpose: model.PurposeDeposit, Amount: 300}
		require.NoError(t, repo.UpdateEmiAgreement(agreement))

		byHash, err := repo.GetEmiAgreementByTransferHash("0xdep")
		require.NoError(t, err)
		assert.Equal(t, "e1", byHash.ID)
		require.NotNil(t, byHash.Pending)
		assert.Equal(t, model.PurposeDeposit, byHash.Pending.Purpose)
		assert.True(t, byHash.NextPaymentDue.Equal(due))

		byUser, err := repo.ListEmiAgreementsByUser("alice")
		require.NoError(t, err)
		require.Len(t, byUser, 2)
		assert.Equal(t, "e2", byUser[0].ID)

		byCompany, err := repo.ListEmiAgreementsByCompany("shop")
		require.NoError(t, err)
		assert.Len(t, byCompany, 1)

		agreement.MonthsPaid = 13
		err = repo.ExecTx(func(tx Repository) error { return tx.UpdateEmiAgreement(agreement) })
		assert.ErrorIs(t, err, ErrConstraintViolation)

		_, err = repo.GetEmiAgreement("missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
