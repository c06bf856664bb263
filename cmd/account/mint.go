package account

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
)

type mintFlags struct {
	Note string
}

func NewMintCmd(svc *service.Service) *cobra.Command {
	flags := &mintFlags{}

	cmd := &cobra.Command{
		Use:   "mint <address> <amount>",
		Short: "Credit an account from outside the ledger",
		Long: `Credit an existing account with funds coming from outside the ledger,
such as a faucet or an on-ramp. The credit is recorded as an external transaction.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := cmdutil.Address(args[0], "address", "Address:")
			if err != nil {
				return err
			}
			amount, err := cmdutil.Amount(svc, args[1], "amount", "Amount:")
			if err != nil {
				return err
			}
			note, err := cmdutil.Description(flags.Note)
			if err != nil {
				return err
			}

			tx, err := svc.Account.Mint(cmd.Context(), address, amount, note)
			if err != nil {
				return err
			}
			pterm.Success.Printf("Minted %s to %s (%s)\n", cmdutil.Formatter(svc)(tx.Amount), address, tx.Hash)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.Note, "note", "n", "", "Optional note")

	return cmd
}
