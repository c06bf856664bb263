package transaction

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ledger"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/prompts"
)

type settleFlags struct {
	Confirmed bool
	Failed    bool
}

type SettleCommandRunner struct {
	svc   *service.Service
	flags *settleFlags
}

func NewSettleCmd(svc *service.Service) *cobra.Command {
	flags := &settleFlags{}

	cmd := &cobra.Command{
		Use:   "settle <hash>",
		Short: "Record the outcome of a pending transfer",
		Long: `Record whether a pending transfer was confirmed or failed.
A confirmed transfer credits the receiver; a failed one refunds the sender.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &SettleCommandRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd, args)
		},
	}

	cmd.Flags().BoolVar(&flags.Confirmed, "confirmed", false, "The transfer was confirmed")
	cmd.Flags().BoolVar(&flags.Failed, "failed", false, "The transfer failed")
	cmd.MarkFlagsMutuallyExclusive("confirmed", "failed")

	return cmd
}

func (r *SettleCommandRunner) Run(cmd *cobra.Command, args []string) error {
	confirmed := r.flags.Confirmed
	if !r.flags.Confirmed && !r.flags.Failed {
		if !cmdutil.Interactive() {
			return fmt.Errorf("one of --confirmed or --failed is required")
		}
		var err error
		if confirmed, err = prompts.PromptSettleOutcome(); err != nil {
			return err
		}
	}

	tx, err := r.svc.Account.Settle(cmd.Context(), args[0], confirmed)
	if errors.Is(err, model.ErrAlreadySettled) {
		pterm.Info.Printf("Transaction %s is already settled\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	pterm.Success.Printf("Transaction %s settled as %s\n", tx.Hash, tx.Status)
	return nil
}

func NewReconcileCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Ask the ledger authority about every pending transfer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settled, err := svc.Account.Reconcile(cmd.Context())
			if errors.Is(err, ledger.ErrNoAuthority) || errors.Is(err, ledger.ErrNoStatusQuery) {
				pterm.Info.Println("The ledger authority can not report transfer status, settle pending transfers manually")
				return nil
			}
			if err != nil {
				return err
			}

			pterm.Success.Printf("Settled %d pending transfer(s)\n", len(settled))
			for _, tx := range settled {
				pterm.Printf("  %s  %s\n", tx.Hash, tx.Status)
			}
			return nil
		},
	}
}
