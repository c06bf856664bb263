package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/config"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/constants"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

func TestEvenShares(t *testing.T) {
	people := []string{"p1", "p2", "p3"}

	tests := []struct {
		name         string
		total        int64
		policy       string
		want         []int64
		creatorShare int64
		wantErr      error
	}{
		{"divides evenly", 90, config.RemainderToCreator, []int64{30, 30, 30}, 0, nil},
		{"remainder to creator", 100, config.RemainderToCreator, []int64{33, 33, 33}, 1, nil},
		{"remainder to first", 100, config.RemainderToFirst, []int64{34, 33, 33}, 0, nil},
		{"too small", 2, config.RemainderToCreator, nil, 0, model.ErrInvalidSplitData},
		{"zero total", 0, config.RemainderToCreator, nil, 0, model.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, creatorShare, err := EvenShares(tt.total, people, tt.policy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			var got []int64
			var sum int64
			for _, s := range shares {
				got = append(got, s.Amount)
				sum += s.Amount
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.creatorShare, creatorShare)
			assert.Equal(t, tt.total, sum+creatorShare)
		})
	}

	_, _, err := EvenShares(10, nil, config.RemainderToCreator)
	assert.ErrorIs(t, err, model.ErrInvalidSplitData)
}

func TestEvenSplitLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "C", 0)
	for _, p := range []string{"P1", "P2", "P3"} {
		h.fund(t, p, 50)
	}

	split, err := h.svc.Split.CreateEvenSplit(ctx, "C", 90, "dinner", []string{"P1", "P2", "P3"}, "0xbill")
	require.NoError(t, err)
	assert.Equal(t, model.SplitPending, split.Status)
	require.Len(t, split.Participants, 3)
	for _, p := range split.Participants {
		assert.Equal(t, int64(30), p.Amount)
		assert.True(t, p.Linked())
	}

	pay := func(address string) {
		t.Helper()
		p := split.Participant(address)
		_, err := h.svc.Request.Accept(ctx, p.PaymentRequestID, address)
		require.NoError(t, err)
	}

	pay("P1")
	got, err := h.svc.Split.Get(split.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SplitPartial, got.Status)
	p1 := got.Participant("P1")
	assert.Equal(t, model.ParticipantPaid, p1.Status)
	assert.NotEmpty(t, p1.TransactionHash)
	assert.NotNil(t, p1.PaidAt)

	pay("P2")
	pay("P3")
	got, err = h.svc.Split.Get(split.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SplitCompleted, got.Status)
	assert.Equal(t, int64(90), h.balance(t, "C"))
	assert.Contains(t, h.events.types(), constants.EventSplitCompleted)
}

func TestEvenSplitRemainderStaysWithCreator(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, a := range []string{"C", "P1", "P2", "P3"} {
		h.fund(t, a, 0)
	}

	split, err := h.svc.Split.CreateEvenSplit(ctx, "C", 100, "", []string{"P1", "P2", "P3"}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), split.CreatorShare)

	var owed int64
	for _, p := range split.Participants {
		assert.Equal(t, int64(33), p.Amount)
		owed += p.Amount
	}
	assert.Equal(t, split.TotalAmount, owed+split.CreatorShare)
}

func TestEvenSplitRemainderToFirst(t *testing.T) {
	h := newHarness(t, withConfig(func(c *Config) { c.RemainderPolicy = config.RemainderToFirst }))
	ctx := context.Background()
	for _, a := range []string{"C", "P1", "P2", "P3"} {
		h.fund(t, a, 0)
	}

	split, err := h.svc.Split.CreateEvenSplit(ctx, "C", 100, "", []string{"P1", "P2", "P3"}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), split.CreatorShare)
	assert.Equal(t, int64(34), split.Participants[0].Amount)

	req, err := h.svc.Request.Get(split.Participants[0].PaymentRequestID)
	require.NoError(t, err)
	assert.Equal(t, int64(34), req.Amount)
	assert.Equal(t, "P1", req.From)
	assert.Equal(t, "C", req.To)
}

func TestCustomSplitEpsilon(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, a := range []string{"C", "P1", "P2"} {
		h.fund(t, a, 0)
	}

	// The default epsilon of 0.000001 is 100 minor units at 8 decimals.
	split, err := h.svc.Split.CreateSplit(ctx, "C", 1000, "", []Share{{"P1", 600}, {"P2", 350}}, "")
	require.NoError(t, err)
	assert.Len(t, split.Participants, 2)

	_, err = h.svc.Split.CreateSplit(ctx, "C", 1000, "", []Share{{"P1", 600}, {"P2", 200}}, "")
	assert.ErrorIs(t, err, model.ErrInvalidSplitData)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = h.svc.Split.CreateSplit(ctx, "C", 1000, "", []Share{{"P1", 500}, {"P1", 500}}, "")
	assert.ErrorIs(t, err, model.ErrInvalidSplitData)

	_, err = h.svc.Split.CreateSplit(ctx, "C", 1000, "", nil, "")
	assert.ErrorIs(t, err, model.ErrInvalidSplitData)

	_, err = h.svc.Split.CreateSplit(ctx, "C", 1000, "", []Share{{"P1", 1100}, {"P2", -100}}, "")
	assert.ErrorIs(t, err, model.ErrInvalidSplitData)
}

func TestUnlinkedParticipantRetry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "C", 0)
	h.fund(t, "P1", 0)

	split, err := h.svc.Split.CreateEvenSplit(ctx, "C", 60, "", []string{"P1", "P2"}, "")
	require.NoError(t, err)

	p2 := split.Participant("P2")
	require.NotNil(t, p2)
	assert.False(t, p2.Linked())
	assert.Contains(t, p2.LinkError, "not found")
	assert.True(t, split.Participant("P1").Linked())

	stored, err := h.svc.Split.Get(split.ID)
	require.NoError(t, err)
	assert.False(t, stored.Participant("P2").Linked())

	_, err = h.svc.Split.RetryParticipant(ctx, split.ID, "P2", "C")
	assert.Error(t, err)

	_, err = h.svc.Split.RetryParticipant(ctx, split.ID, "P2", "P1")
	assert.ErrorIs(t, err, model.ErrNotAuthorized)

	h.fund(t, "P2", 0)
	retried, err := h.svc.Split.RetryParticipant(ctx, split.ID, "P2", "C")
	require.NoError(t, err)
	p2 = retried.Participant("P2")
	assert.True(t, p2.Linked())
	assert.Empty(t, p2.LinkError)

	incoming, err := h.svc.Request.ListIncoming("P2")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, p2.PaymentRequestID, incoming[0].ID)
}

func TestMarkParticipantPaid(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "C", 0)
	h.fund(t, "P1", 100)
	h.fund(t, "P2", 100)

	split, err := h.svc.Split.CreateEvenSplit(ctx, "C", 40, "", []string{"P1", "P2"}, "")
	require.NoError(t, err)

	_, err = h.svc.Split.MarkParticipantPaid(ctx, split.ID, "P2", "0xforged")
	assert.ErrorIs(t, err, model.ErrInvalidSplitData)

	txn, err := h.svc.Request.Accept(ctx, split.Participant("P1").PaymentRequestID, "P1")
	require.NoError(t, err)

	again, err := h.svc.Split.MarkParticipantPaid(ctx, split.ID, "P1", txn.Hash)
	require.NoError(t, err)
	assert.Equal(t, model.SplitPartial, again.Status)

	_, err = h.svc.Split.MarkParticipantPaid(ctx, split.ID, "P1", "0xother")
	assert.ErrorIs(t, err, model.ErrRequestAlreadyResolved)

	_, err = h.svc.Split.MarkParticipantPaid(ctx, split.ID, "P9", txn.Hash)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListSplits(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, a := range []string{"C", "P1", "P2"} {
		h.fund(t, a, 0)
	}

	_, err := h.svc.Split.CreateEvenSplit(ctx, "C", 20, "", []string{"P1", "P2"}, "")
	require.NoError(t, err)
	_, err = h.svc.Split.CreateEvenSplit(ctx, "C", 20, "", []string{"P1"}, "")
	require.NoError(t, err)

	byCreator, err := h.svc.Split.ListByCreator("C")
	require.NoError(t, err)
	assert.Len(t, byCreator, 2)

	byP2, err := h.svc.Split.ListByParticipant("P2")
	require.NoError(t, err)
	assert.Len(t, byP2, 1)
}

func TestCustomSplitShareOverflow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, a := range []string{"C", "A", "B", "D"} {
		h.fund(t, a, 0)
	}

	shares := []Share{{"A", math.MaxInt64}, {"B", math.MaxInt64}, {"D", 4}}
	_, err := h.svc.Split.CreateSplit(ctx, "C", 2, "", shares, "")
	assert.ErrorIs(t, err, model.ErrInvalidSplitData)

	_, err = h.svc.Split.CreateSplit(ctx, "C", math.MaxInt64, "", []Share{{"A", math.MaxInt64 - 1}, {"B", 1}}, "")
	require.NoError(t, err)

	incoming, err := h.svc.Request.ListIncoming("A")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, int64(math.MaxInt64-1), incoming[0].Amount)
}

func TestSplitRejectsEscrowAddresses(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fund(t, "C", 0)
	h.fund(t, "P1", 0)

	escrow := model.EscrowAddress("a1")
	_, err := h.svc.Split.CreateEvenSplit(ctx, "C", 60, "", []string{"P1", escrow}, "")
	assert.ErrorIs(t, err, model.ErrNotAuthorized)

	_, err = h.svc.Split.CreateSplit(ctx, escrow, 60, "", []Share{{"P1", 60}}, "")
	assert.ErrorIs(t, err, model.ErrNotAuthorized)

	created, err := h.svc.Split.ListByCreator("C")
	require.NoError(t, err)
	assert.Empty(t, created)
}
