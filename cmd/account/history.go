package account

import (
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

const defaultHistoryLimit = 20

type historyFlags struct {
	Limit int
}

func NewHistoryCmd(svc *service.Service) *cobra.Command {
	flags := &historyFlags{}

	cmd := &cobra.Command{
		Use:   "history [address]",
		Short: "Show the transaction history of an address",
		Long:  `Show the transactions an address took part in, most recent first.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, _ := cmd.Flags().GetString(cmdutil.FlagAs)
			if len(args) == 1 {
				address = args[0]
			}
			address, err := cmdutil.Address(address, "address", "Address:")
			if err != nil {
				return err
			}

			entries, err := svc.Account.History(address, flags.Limit)
			if err != nil {
				return err
			}
			return views.NewTransactionListView(cmdutil.Formatter(svc)).RenderHistory(address, entries, flags.Limit)
		},
	}

	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", defaultHistoryLimit, "Maximum number of entries to show")

	return cmd
}
