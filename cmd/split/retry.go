package split

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

func NewRetryCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <split-id> <address>",
		Short: "Create the missing payment request of a participant",
		Long: `Participants whose payment request could not be created when the split was
made stay unlinked. Once the cause is fixed (for example the account now exists)
the creator can retry.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			creator, err := cmdutil.Acting(cmd)
			if err != nil {
				return err
			}

			split, err := svc.Split.RetryParticipant(cmd.Context(), args[0], args[1], creator)
			if err != nil {
				return err
			}

			pterm.Success.Printf("Participant %s is linked\n", args[1])
			return views.RenderSplitDetail(split, cmdutil.Formatter(svc))
		},
	}
}
