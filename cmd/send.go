package cmd

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

type sendFlags struct {
	From   string
	To     string
	Amount string
	Note   string
}

type sendRunner struct {
	svc   *service.Service
	flags *sendFlags
}

func NewSendCmd(svc *service.Service) *cobra.Command {
	flags := &sendFlags{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Transfer funds between two accounts",
		Long: `Transfer funds from one account to another.

Example: aptex send --from alice --to bob --amount 12.5 --note "lunch"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &sendRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd)
		},
	}

	cmd.Flags().StringVarP(&flags.From, "from", "f", "", "Sending address (defaults to --as)")
	cmd.Flags().StringVarP(&flags.To, "to", "t", "", "Receiving address")
	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Amount to send")
	cmd.Flags().StringVarP(&flags.Note, "note", "n", "", "Optional note")

	return cmd
}

func (r *sendRunner) Run(cmd *cobra.Command) error {
	from := r.flags.From
	if from == "" {
		from, _ = cmd.Flags().GetString(cmdutil.FlagAs)
	}
	from, err := cmdutil.PickAccount(r.svc, from, "--from", "From account:")
	if err != nil {
		return err
	}
	to, err := cmdutil.PickAccount(r.svc, r.flags.To, "--to", "To account:")
	if err != nil {
		return err
	}
	amount, err := cmdutil.Amount(r.svc, r.flags.Amount, "--amount", "Amount:")
	if err != nil {
		return err
	}
	note, err := cmdutil.Description(r.flags.Note)
	if err != nil {
		return err
	}

	tx, err := r.svc.Account.Send(cmd.Context(), from, to, amount, note)
	if tx != nil {
		views.RenderTransferResult(tx, cmdutil.Formatter(r.svc))
	}
	if errors.Is(err, model.ErrConfirmationUnknown) {
		pterm.Info.Println("Settle it later with 'aptex transaction settle' or 'aptex transaction reconcile'")
		return nil
	}
	return err
}
