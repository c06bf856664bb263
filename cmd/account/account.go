package account

import (
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
)

func NewAccountCmd(svc *service.Service) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Create accounts, inspect balances and history.",
		Long:  `Create accounts, inspect balances and their transaction history.`,
	}

	accountCmd.AddCommand(NewCreateCmd(svc))
	accountCmd.AddCommand(NewBalanceCmd(svc))
	accountCmd.AddCommand(NewListCmd(svc))
	accountCmd.AddCommand(NewHistoryCmd(svc))
	accountCmd.AddCommand(NewMintCmd(svc))
	accountCmd.AddCommand(NewVerifyCmd(svc))

	return accountCmd
}
