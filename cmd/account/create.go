package account

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/prompts"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/validation"
)

type createFlags struct {
	Balance string
}

type CreateCommandRunner struct {
	svc   *service.Service
	flags *createFlags
}

func NewCreateCmd(svc *service.Service) *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create [address]",
		Short: "Create a new account.",
		Long: `Create a new account identified by its address, optionally funded with an
initial balance. The initial balance is recorded as an external mint.

Example: aptex account create alice -b 100`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &CreateCommandRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd, args)
		},
	}

	cmd.Flags().StringVarP(&flags.Balance, "balance", "b", "", "Initial balance")

	return cmd
}

func (r *CreateCommandRunner) Run(cmd *cobra.Command, args []string) error {
	var address string
	if len(args) == 1 {
		address = args[0]
	}
	address, err := cmdutil.Address(address, "address", "Account address:")
	if err != nil {
		return err
	}

	validator := validation.ValidateInitialBalance(r.svc.Settings.Decimals)
	raw := r.flags.Balance
	if len(args) == 0 && raw == "" && cmdutil.Interactive() {
		if raw, err = prompts.PromptInitialBalance(validator); err != nil {
			return err
		}
	}

	var initial int64
	if raw != "" {
		if err := validator(raw); err != nil {
			return fmt.Errorf("%w: %v", model.ErrInvalidAmount, err)
		}
		if initial, err = r.svc.Account.ParseAmount(raw); err != nil {
			return err
		}
	}

	acc, err := r.svc.Account.Create(cmd.Context(), address, initial)
	if errors.Is(err, model.ErrAccountExists) {
		pterm.Info.Printf("Account %s already exists\n", address)
		return nil
	}
	if err != nil {
		return err
	}

	return views.RenderAccountSuccess(acc, cmdutil.Formatter(r.svc))
}
