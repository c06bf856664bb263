package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

// MemoryStore is an in-memory Repository. ExecTx works on a copy of the
// data and swaps it in on success, so a failed transaction leaves no trace.
type MemoryStore struct {
	mu   *sync.Mutex
	data *dataset
	inTx bool
}

type dataset struct {
	accounts     map[string]model.Account
	transactions map[string]model.Transaction
	entries      []model.LedgerEntry
	seq          int64
	requests     map[string]model.PaymentRequest
	splits       map[string]model.BillSplit
	agreements   map[string]model.EmiAgreement
}

var _ Repository = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		data: &dataset{
			accounts:     make(map[string]model.Account),
			transactions: make(map[string]model.Transaction),
			requests:     make(map[string]model.PaymentRequest),
			splits:       make(map[string]model.BillSplit),
			agreements:   make(map[string]model.EmiAgreement),
		},
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		accounts:     make(map[string]model.Account, len(d.accounts)),
		transactions: make(map[string]model.Transaction, len(d.transactions)),
		entries:      make([]model.LedgerEntry, len(d.entries)),
		seq:          d.seq,
		requests:     make(map[string]model.PaymentRequest, len(d.requests)),
		splits:       make(map[string]model.BillSplit, len(d.splits)),
		agreements:   make(map[string]model.EmiAgreement, len(d.agreements)),
	}
	for k, v := range d.accounts {
		c.accounts[k] = v
	}
	for k, v := range d.transactions {
		c.transactions[k] = v
	}
	copy(c.entries, d.entries)
	for k, v := range d.requests {
		c.requests[k] = copyRequest(v)
	}
	for k, v := range d.splits {
		c.splits[k] = copySplit(v)
	}
	for k, v := range d.agreements {
		c.agreements[k] = copyAgreement(v)
	}
	return c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyRequest(r model.PaymentRequest) model.PaymentRequest {
	r.ResolvedAt = copyTime(r.ResolvedAt)
	return r
}

func copySplit(s model.BillSplit) model.BillSplit {
	participants := make([]model.BillParticipant, len(s.Participants))
	for i, p := range s.Participants {
		p.PaidAt = copyTime(p.PaidAt)
		participants[i] = p
	}
	s.Participants = participants
	return s
}

func copyAgreement(a model.EmiAgreement) model.EmiAgreement {
	if a.Pending != nil {
		p := *a.Pending
		a.Pending = &p
	}
	return a
}

// lock is a no-op inside ExecTx, which already holds the mutex.
func (m *MemoryStore) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *MemoryStore) ExecTx(fn func(Repository) error) error {
	if m.inTx {
		return fn(m)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &MemoryStore{mu: m.mu, data: m.data.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	m.data = tx.data
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) CreateAccount(acc *model.Account) error {
	defer m.lock()()

	if _, ok := m.data.accounts[acc.Address]; ok {
		return fmt.Errorf("failed to create account '%s': %w", acc.Address, ErrAccountExists)
	}
	m.data.accounts[acc.Address] = *acc
	return nil
}

func (m *MemoryStore) GetAccount(address string) (*model.Account, error) {
	defer m.lock()()

	acc, ok := m.data.accounts[address]
	if !ok {
		return nil, fmt.Errorf("account '%s': %w", address, ErrRecordNotFound)
	}
	return &acc, nil
}

func (m *MemoryStore) AccountExists(address string) (bool, error) {
	defer m.lock()()

	_, ok := m.data.accounts[address]
	return ok, nil
}

func (m *MemoryStore) ListAccounts() ([]*model.Account, error) {
	defer m.lock()()

	accounts := make([]*model.Account, 0, len(m.data.accounts))
	for _, acc := range m.data.accounts {
		acc := acc
		accounts = append(accounts, &acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Address < accounts[j].Address })
	return accounts, nil
}

func (m *MemoryStore) UpdateBalance(address string, balance int64) error {
	defer m.lock()()

	acc, ok := m.data.accounts[address]
	if !ok {
		return fmt.Errorf("account %s: %w", address, ErrRecordNotFound)
	}
	if balance < 0 {
		return fmt.Errorf("balance of '%s' would be %d: %w", address, balance, ErrConstraintViolation)
	}
	acc.Balance = balance
	m.data.accounts[address] = acc
	return nil
}

func (m *MemoryStore) CreateTransaction(tx *model.Transaction) error {
	defer m.lock()()

	if _, ok := m.data.transactions[tx.Hash]; ok {
		return fmt.Errorf("transaction %s already exists: %w", tx.Hash, ErrConstraintViolation)
	}
	m.data.transactions[tx.Hash] = *tx
	return nil
}

func (m *MemoryStore) GetTransaction(hash string) (*model.Transaction, error) {
	defer m.lock()()

	tx, ok := m.data.transactions[hash]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", hash, ErrRecordNotFound)
	}
	return &tx, nil
}

func (m *MemoryStore) UpdateTransactionStatus(hash string, status model.TxStatus) error {
	defer m.lock()()

	tx, ok := m.data.transactions[hash]
	if !ok || tx.Status != model.TxPending {
		return fmt.Errorf("pending transaction %s: %w", hash, ErrRecordNotFound)
	}
	tx.Status = status
	m.data.transactions[hash] = tx
	return nil
}

func (m *MemoryStore) ListTransactionsByStatus(status model.TxStatus) ([]*model.Transaction, error) {
	defer m.lock()()

	var txs []*model.Transaction
	for _, tx := range m.data.transactions {
		if tx.Status == status {
			tx := tx
			txs = append(txs, &tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Timestamp.Equal(txs[j].Timestamp) {
			return txs[i].Timestamp.Before(txs[j].Timestamp)
		}
		return txs[i].Hash < txs[j].Hash
	})
	return txs, nil
}

func (m *MemoryStore) AppendLedgerEntry(address, hash string, kind model.TxKind) error {
	defer m.lock()()

	if _, ok := m.data.transactions[hash]; !ok {
		return fmt.Errorf("transaction %s: %w", hash, ErrRecordNotFound)
	}
	m.data.seq++
	m.data.entries = append(m.data.entries, model.LedgerEntry{
		Seq:         m.data.seq,
		Address:     address,
		Kind:        kind,
		Transaction: model.Transaction{Hash: hash},
	})
	return nil
}

func (m *MemoryStore) GetLedgerEntries(address string, limit int) ([]*model.LedgerEntry, error) {
	defer m.lock()()

	if limit <= 0 {
		limit = 100
	}

	var entries []*model.LedgerEntry
	for i := len(m.data.entries) - 1; i >= 0 && len(entries) < limit; i-- {
		e := m.data.entries[i]
		if e.Address != address {
			continue
		}
		e.Transaction = m.data.transactions[e.Transaction.Hash]
		entries = append(entries, &e)
	}
	return entries, nil
}

func (m *MemoryStore) CreatePaymentRequest(req *model.PaymentRequest) error {
	defer m.lock()()

	if _, ok := m.data.requests[req.ID]; ok {
		return fmt.Errorf("payment request %s already exists: %w", req.ID, ErrConstraintViolation)
	}
	m.data.requests[req.ID] = copyRequest(*req)
	return nil
}

func (m *MemoryStore) GetPaymentRequest(id string) (*model.PaymentRequest, error) {
	defer m.lock()()

	req, ok := m.data.requests[id]
	if !ok {
		return nil, fmt.Errorf("payment request %s: %w", id, ErrRecordNotFound)
	}
	req = copyRequest(req)
	return &req, nil
}

func (m *MemoryStore) UpdatePaymentRequest(req *model.PaymentRequest) error {
	defer m.lock()()

	if _, ok := m.data.requests[req.ID]; !ok {
		return fmt.Errorf("payment request %s: %w", req.ID, ErrRecordNotFound)
	}
	m.data.requests[req.ID] = copyRequest(*req)
	return nil
}

func (m *MemoryStore) ListRequestsByPayer(address string) ([]*model.PaymentRequest, error) {
	return m.filterRequests(func(r *model.PaymentRequest) bool { return r.From == address }), nil
}

func (m *MemoryStore) ListRequestsByPayee(address string) ([]*model.PaymentRequest, error) {
	return m.filterRequests(func(r *model.PaymentRequest) bool { return r.To == address }), nil
}

func (m *MemoryStore) GetRequestByTransferHash(hash string) (*model.PaymentRequest, error) {
	found := m.filterRequests(func(r *model.PaymentRequest) bool { return hash != "" && r.TransferHash == hash })
	if len(found) == 0 {
		return nil, fmt.Errorf("payment request for transfer %s: %w", hash, ErrRecordNotFound)
	}
	return found[0], nil
}

func (m *MemoryStore) filterRequests(keep func(*model.PaymentRequest) bool) []*model.PaymentRequest {
	defer m.lock()()

	var out []*model.PaymentRequest
	for _, r := range m.data.requests {
		r := copyRequest(r)
		if keep(&r) {
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MemoryStore) CreateBillSplit(split *model.BillSplit) error {
	defer m.lock()()

	if _, ok := m.data.splits[split.ID]; ok {
		return fmt.Errorf("bill split %s already exists: %w", split.ID, ErrConstraintViolation)
	}
	seen := make(map[string]bool, len(split.Participants))
	for _, p := range split.Participants {
		if seen[p.Address] {
			return fmt.Errorf("participant %s listed twice: %w", p.Address, ErrConstraintViolation)
		}
		seen[p.Address] = true
	}
	m.data.splits[split.ID] = copySplit(*split)
	return nil
}

func (m *MemoryStore) GetBillSplit(id string) (*model.BillSplit, error) {
	defer m.lock()()

	split, ok := m.data.splits[id]
	if !ok {
		return nil, fmt.Errorf("bill split %s: %w", id, ErrRecordNotFound)
	}
	split = copySplit(split)
	return &split, nil
}

func (m *MemoryStore) UpdateBillSplit(split *model.BillSplit) error {
	defer m.lock()()

	if _, ok := m.data.splits[split.ID]; !ok {
		return fmt.Errorf("bill split %s: %w", split.ID, ErrRecordNotFound)
	}
	m.data.splits[split.ID] = copySplit(*split)
	return nil
}

func (m *MemoryStore) GetBillSplitByRequest(requestID string) (*model.BillSplit, error) {
	found := m.filterSplits(func(s *model.BillSplit) bool {
		for _, p := range s.Participants {
			if requestID != "" && p.PaymentRequestID == requestID {
				return true
			}
		}
		return false
	})
	if len(found) == 0 {
		return nil, fmt.Errorf("bill split for request %s: %w", requestID, ErrRecordNotFound)
	}
	return found[0], nil
}

func (m *MemoryStore) ListBillSplitsByCreator(address string) ([]*model.BillSplit, error) {
	return m.filterSplits(func(s *model.BillSplit) bool { return s.CreatedBy == address }), nil
}

func (m *MemoryStore) ListBillSplitsByParticipant(address string) ([]*model.BillSplit, error) {
	return m.filterSplits(func(s *model.BillSplit) bool { return s.Participant(address) != nil }), nil
}

func (m *MemoryStore) filterSplits(keep func(*model.BillSplit) bool) []*model.BillSplit {
	defer m.lock()()

	var out []*model.BillSplit
	for _, s := range m.data.splits {
		s := copySplit(s)
		if keep(&s) {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MemoryStore) CreateEmiAgreement(a *model.EmiAgreement) error {
	defer m.lock()()

	if _, ok := m.data.agreements[a.ID]; ok {
		return fmt.Errorf("EMI agreement %s already exists: %w", a.ID, ErrConstraintViolation)
	}
	m.data.agreements[a.ID] = copyAgreement(*a)
	return nil
}

func (m *MemoryStore) GetEmiAgreement(id string) (*model.EmiAgreement, error) {
	defer m.lock()()

	a, ok := m.data.agreements[id]
	if !ok {
		return nil, fmt.Errorf("EMI agreement %s: %w", id, ErrRecordNotFound)
	}
	a = copyAgreement(a)
	return &a, nil
}

func (m *MemoryStore) UpdateEmiAgreement(a *model.EmiAgreement) error {
	defer m.lock()()

	if _, ok := m.data.agreements[a.ID]; !ok {
		return fmt.Errorf("EMI agreement %s: %w", a.ID, ErrRecordNotFound)
	}
	if a.MonthsPaid < 0 || a.MonthsPaid > a.Months || a.AutoPayBalance < 0 {
		return fmt.Errorf("EMI agreement %s: %w", a.ID, ErrConstraintViolation)
	}
	m.data.agreements[a.ID] = copyAgreement(*a)
	return nil
}

func (m *MemoryStore) ListEmiAgreementsByUser(address string) ([]*model.EmiAgreement, error) {
	return m.filterAgreements(func(a *model.EmiAgreement) bool { return a.User == address }, byCreatedDesc), nil
}

func (m *MemoryStore) ListEmiAgreementsByCompany(address string) ([]*model.EmiAgreement, error) {
	return m.filterAgreements(func(a *model.EmiAgreement) bool { return a.Company == address }, byCreatedDesc), nil
}

func (m *MemoryStore) ListDueEmiAgreements(now time.Time) ([]*model.EmiAgreement, error) {
	return m.filterAgreements(func(a *model.EmiAgreement) bool {
		return a.Status == model.EmiActive && !a.NextPaymentDue.After(now)
	}, byDueAsc), nil
}

func (m *MemoryStore) GetEmiAgreementByTransferHash(hash string) (*model.EmiAgreement, error) {
	found := m.filterAgreements(func(a *model.EmiAgreement) bool {
		return hash != "" && a.Pending != nil && a.Pending.Hash == hash
	}, byCreatedDesc)
	if len(found) == 0 {
		return nil, fmt.Errorf("EMI agreement for transfer %s: %w", hash, ErrRecordNotFound)
	}
	return found[0], nil
}

func byCreatedDesc(a, b *model.EmiAgreement) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

func byDueAsc(a, b *model.EmiAgreement) bool {
	if !a.NextPaymentDue.Equal(b.NextPaymentDue) {
		return a.NextPaymentDue.Before(b.NextPaymentDue)
	}
	return a.ID < b.ID
}

func (m *MemoryStore) filterAgreements(keep func(*model.EmiAgreement) bool, less func(a, b *model.EmiAgreement) bool) []*model.EmiAgreement {
	defer m.lock()()

	var out []*model.EmiAgreement
	for _, a := range m.data.agreements {
		a := copyAgreement(a)
		if keep(&a) {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
