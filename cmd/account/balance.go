package account

import (
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

func NewBalanceCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Show the balance of an address",
		Long:  `Show the balance of an address. Unknown addresses have a balance of zero.`,
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

			balance, err := svc.Account.Balance(address)
			if err != nil {
				return err
			}
			views.RenderBalance(address, balance, cmdutil.Formatter(svc))
			return nil
		},
	}
}
