package account

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ledger"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

func NewVerifyCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <address>",
		Short: "Compare the local balance with the ledger authority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := cmdutil.Address(args[0], "address", "Address:")
			if err != nil {
				return err
			}

			check, err := svc.Account.Verify(cmd.Context(), address)
			if errors.Is(err, ledger.ErrNoAuthority) {
				pterm.Info.Println("No ledger authority configured, the local ledger is authoritative")
				return nil
			}
			if err != nil {
				return err
			}
			return views.RenderBalanceCheck(check, cmdutil.Formatter(svc))
		},
	}
}
