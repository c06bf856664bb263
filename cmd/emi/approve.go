package emi

import (
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
)

type depositFlags struct {
	Amount string
}

func NewApproveCmd(svc *service.Service) *cobra.Command {
	flags := &depositFlags{}

	cmd := &cobra.Command{
		Use:   "approve <agreement-id>",
		Short: "Approve auto-pay and fund the escrow",
		Long: `Approve automatic installment payments for an agreement. The deposit moves
from the acting user into the agreement escrow, which due installments are paid from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := cmdutil.Acting(cmd)
			if err != nil {
				return err
			}
			amount, err := cmdutil.Amount(svc, flags.Amount, "--deposit", "Escrow deposit:")
			if err != nil {
				return err
			}

			a, tx, err := svc.Emi.ApproveAutoPay(cmd.Context(), args[0], user, amount)
			return renderTransfer(svc, a, tx, err)
		},
	}

	cmd.Flags().StringVar(&flags.Amount, "deposit", "", "Amount moved into the escrow")

	return cmd
}

func NewFundCmd(svc *service.Service) *cobra.Command {
	flags := &depositFlags{}

	cmd := &cobra.Command{
		Use:   "fund <agreement-id>",
		Short: "Add funds to the escrow of an approved agreement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := cmdutil.Acting(cmd)
			if err != nil {
				return err
			}
			amount, err := cmdutil.Amount(svc, flags.Amount, "--amount", "Amount to add:")
			if err != nil {
				return err
			}

			a, tx, err := svc.Emi.AddFunds(cmd.Context(), args[0], user, amount)
			return renderTransfer(svc, a, tx, err)
		},
	}

	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Amount moved into the escrow")

	return cmd
}
