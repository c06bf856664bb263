package account

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

type listFlags struct {
	ShowEscrow bool
}

type ListCommandRunner struct {
	svc   *service.Service
	flags *listFlags
}

func NewListCmd(svc *service.Service) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all accounts with their balances",
		Long: `List all accounts with their current balances.
EMI escrow accounts are hidden unless --show-escrow is given.`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ListCommandRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run()
		},
	}

	cmd.Flags().BoolVar(&flags.ShowEscrow, "show-escrow", false, "Show EMI escrow accounts")

	return cmd
}

func (r *ListCommandRunner) Run() error {
	accounts, err := r.svc.Account.List()
	if err != nil {
		return fmt.Errorf("failed to get accounts: %w", err)
	}

	if !r.flags.ShowEscrow {
		visible := accounts[:0]
		for _, acc := range accounts {
			if !model.IsEscrow(acc.Address) {
				visible = append(visible, acc)
			}
		}
		accounts = visible
	}

	return views.NewAccountListView(cmdutil.Formatter(r.svc)).Render(accounts)
}
