package transaction

import (
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
)

func NewTransactionCmd(svc *service.Service) *cobra.Command {
	transactionCmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"tx"},
		Short:   "Inspect and settle transactions",
		Long:    "Inspect transaction records and settle transfers whose outcome is still pending.",
	}

	transactionCmd.AddCommand(NewShowCmd(svc))
	transactionCmd.AddCommand(NewPendingCmd(svc))
	transactionCmd.AddCommand(NewSettleCmd(svc))
	transactionCmd.AddCommand(NewReconcileCmd(svc))

	return transactionCmd
}
