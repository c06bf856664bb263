package transaction

import (
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

type ShowCommandRunner struct {
	svc *service.Service
}

func NewShowCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "show <hash>",
		Short: "Show transaction details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ShowCommandRunner{
				svc: svc,
			}
			return runner.Run(args)
		},
	}
}

func (r *ShowCommandRunner) Run(args []string) error {
	tx, err := r.svc.Account.Transaction(args[0])
	if err != nil {
		return err
	}

	return views.RenderTransactionDetail(tx, cmdutil.Formatter(r.svc))
}

func NewPendingCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List transfers waiting for settlement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := svc.Account.Pending()
			if err != nil {
				return err
			}
			return views.NewTransactionListView(cmdutil.Formatter(svc)).RenderTransactions("Pending transfers", txs)
		},
	}
}
