package split

import (
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
)

func NewSplitCmd(svc *service.Service) *cobra.Command {
	splitCmd := &cobra.Command{
		Use:   "split",
		Short: "Split a bill between several addresses",
		Long: `A bill split turns one payment into payment requests owed to its creator.
Each participant pays its share by accepting the request.`,
	}

	splitCmd.AddCommand(NewCreateCmd(svc))
	splitCmd.AddCommand(NewShowCmd(svc))
	splitCmd.AddCommand(NewListCmd(svc))
	splitCmd.AddCommand(NewRetryCmd(svc))

	return splitCmd
}
