package request

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

func NewAcceptCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <request-id>",
		Short: "Pay a request addressed to you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payer, err := cmdutil.Acting(cmd)
			if err != nil {
				return err
			}

			tx, err := svc.Request.Accept(cmd.Context(), args[0], payer)
			if tx != nil {
				views.RenderTransferResult(tx, cmdutil.Formatter(svc))
			}
			if errors.Is(err, model.ErrConfirmationUnknown) {
				pterm.Info.Println("The request is marked paid once the transfer settles")
				return nil
			}
			if err != nil {
				return err
			}

			pterm.Success.Printf("Request %s paid\n", args[0])
			return nil
		},
	}
}
