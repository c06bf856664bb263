package emi

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

type processFlags struct {
	All bool
}

func NewProcessCmd(svc *service.Service) *cobra.Command {
	flags := &processFlags{}

	cmd := &cobra.Command{
		Use:   "process [agreement-id]",
		Short: "Collect due installments from the escrow",
		Long: `Check due installments and pay them from the agreement escrow. Agreements
without enough escrow default once the grace period has passed.
Use --all to process every due agreement.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.All == (len(args) == 1) {
				return fmt.Errorf("give either an agreement id or --all")
			}

			if flags.All {
				outcomes, err := svc.Emi.ProcessAllDue(cmd.Context(), now())
				if err != nil {
					return err
				}
				return views.RenderInstallmentOutcomes(outcomes)
			}

			out, err := svc.Emi.ProcessDueInstallment(cmd.Context(), args[0], now())
			if err != nil && !errors.Is(err, model.ErrConfirmationUnknown) {
				return err
			}
			return views.RenderInstallmentOutcomes([]service.InstallmentOutcome{out})
		},
	}

	cmd.Flags().BoolVar(&flags.All, "all", false, "Process every due agreement")

	return cmd
}

func NewPayCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <agreement-id>",
		Short: "Pay the next installment from your own balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := cmdutil.Acting(cmd)
			if err != nil {
				return err
			}

			out, err := svc.Emi.PayInstallment(cmd.Context(), args[0], user, now())
			return renderTransfer(svc, out.Agreement, out.Transaction, err)
		},
	}
}
