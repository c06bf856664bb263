package request

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
)

type rejectFlags struct {
	Yes bool
}

func NewRejectCmd(svc *service.Service) *cobra.Command {
	flags := &rejectFlags{}

	cmd := &cobra.Command{
		Use:   "reject <request-id>",
		Short: "Decline a request addressed to you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payer, err := cmdutil.Acting(cmd)
			if err != nil {
				return err
			}

			req, err := svc.Request.Get(args[0])
			if err != nil {
				return err
			}
			message := fmt.Sprintf("Reject the request of %s for %s? This can not be undone.",
				req.To, cmdutil.Formatter(svc)(req.Amount))
			ok, err := cmdutil.ConfirmAction(flags.Yes, message)
			if err != nil {
				return err
			}
			if !ok {
				pterm.Info.Println("Request left pending")
				return nil
			}

			if _, err := svc.Request.Reject(cmd.Context(), args[0], payer); err != nil {
				return err
			}
			pterm.Success.Printf("Request %s rejected\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation")

	return cmd
}
