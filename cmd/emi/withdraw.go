package emi

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
)

type withdrawFlags struct {
	Yes bool
}

func NewWithdrawCmd(svc *service.Service) *cobra.Command {
	flags := &withdrawFlags{}

	cmd := &cobra.Command{
		Use:   "withdraw <agreement-id>",
		Short: "Return the escrow to the user",
		Long: `Move the whole escrow balance back to the user. On an active agreement
this also revokes auto-pay, so later installments must be paid manually.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := cmdutil.Acting(cmd)
			if err != nil {
				return err
			}

			a, err := svc.Emi.Get(args[0])
			if err != nil {
				return err
			}
			message := fmt.Sprintf("Withdraw %s from the escrow of %s?", cmdutil.Formatter(svc)(a.AutoPayBalance), a.ID)
			if !a.IsTerminal() && a.AutoPayApproved {
				message += " Auto-pay will be revoked."
			}
			ok, err := cmdutil.ConfirmAction(flags.Yes, message)
			if err != nil {
				return err
			}
			if !ok {
				pterm.Info.Println("Escrow left untouched")
				return nil
			}

			a, tx, err := svc.Emi.WithdrawEscrow(cmd.Context(), args[0], user)
			return renderTransfer(svc, a, tx, err)
		},
	}

	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation")

	return cmd
}
