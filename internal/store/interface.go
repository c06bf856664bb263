package store

import (
	"time"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

type AccountRepository interface {
	CreateAccount(acc *model.Account) error
	GetAccount(address string) (*model.Account, error)
	AccountExists(address string) (bool, error)
	ListAccounts() ([]*model.Account, error)
	UpdateBalance(address string, balance int64) error
}

type TransactionRepository interface {
	CreateTransaction(tx *model.Transaction) error
	GetTransaction(hash string) (*model.Transaction, error)
	UpdateTransactionStatus(hash string, status model.TxStatus) error
	ListTransactionsByStatus(status model.TxStatus) ([]*model.Transaction, error)

	// AppendLedgerEntry adds the transaction to one party's view. Entries
	// are numbered in the order they are appended.
	AppendLedgerEntry(address, hash string, kind model.TxKind) error
	// GetLedgerEntries returns the newest entries of address first.
	GetLedgerEntries(address string, limit int) ([]*model.LedgerEntry, error)
}

type RequestRepository interface {
	CreatePaymentRequest(req *model.PaymentRequest) error
	GetPaymentRequest(id string) (*model.PaymentRequest, error)
	UpdatePaymentRequest(req *model.PaymentRequest) error
	ListRequestsByPayer(address string) ([]*model.PaymentRequest, error)
	ListRequestsByPayee(address string) ([]*model.PaymentRequest, error)
	GetRequestByTransferHash(hash string) (*model.PaymentRequest, error)
}

type SplitRepository interface {
	CreateBillSplit(split *model.BillSplit) error
	GetBillSplit(id string) (*model.BillSplit, error)
	UpdateBillSplit(split *model.BillSplit) error
	GetBillSplitByRequest(requestID string) (*model.BillSplit, error)
	ListBillSplitsByCreator(address string) ([]*model.BillSplit, error)
	ListBillSplitsByParticipant(address string) ([]*model.BillSplit, error)
}

type EmiRepository interface {
	CreateEmiAgreement(a *model.EmiAgreement) error
	GetEmiAgreement(id string) (*model.EmiAgreement, error)
	UpdateEmiAgreement(a *model.EmiAgreement) error
	ListEmiAgreementsByUser(address string) ([]*model.EmiAgreement, error)
	ListEmiAgreementsByCompany(address string) ([]*model.EmiAgreement, error)
	// ListDueEmiAgreements returns active agreements due at or before now.
	ListDueEmiAgreements(now time.Time) ([]*model.EmiAgreement, error)
	GetEmiAgreementByTransferHash(hash string) (*model.EmiAgreement, error)
}

type Repository interface {
	AccountRepository
	TransactionRepository
	RequestRepository
	SplitRepository
	EmiRepository

	// ExecTx runs fn against a transactional view of the repository. The
	// changes are kept only if fn returns nil. Calling ExecTx on the view
	// joins the outer transaction.
	ExecTx(fn func(Repository) error) error
	Close() error
}
