package request

import (
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
)

func NewRequestCmd(svc *service.Service) *cobra.Command {
	requestCmd := &cobra.Command{
		Use:     "request",
		Aliases: []string{"req"},
		Short:   "Ask other addresses for money and answer their requests",
		Long: `Payment requests ask a payer to transfer an amount to the requester.
The payer accepts (which transfers the funds) or rejects them.`,
	}

	requestCmd.AddCommand(NewCreateCmd(svc))
	requestCmd.AddCommand(NewAcceptCmd(svc))
	requestCmd.AddCommand(NewRejectCmd(svc))
	requestCmd.AddCommand(NewListCmd(svc))
	requestCmd.AddCommand(NewShowCmd(svc))

	return requestCmd
}
