package request

import (
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

type listFlags struct {
	Incoming bool
	Outgoing bool
}

type ListCommandRunner struct {
	svc   *service.Service
	flags *listFlags
}

func NewListCmd(svc *service.Service) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the requests of the acting address",
		Long: `List incoming requests (the acting address has to pay) and outgoing
requests (the acting address asked for money). Both are shown by default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ListCommandRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd)
		},
	}

	cmd.Flags().BoolVar(&flags.Incoming, "incoming", false, "Only requests you have to pay")
	cmd.Flags().BoolVar(&flags.Outgoing, "outgoing", false, "Only requests you created")
	cmd.MarkFlagsMutuallyExclusive("incoming", "outgoing")

	return cmd
}

func (r *ListCommandRunner) Run(cmd *cobra.Command) error {
	address, err := cmdutil.Acting(cmd)
	if err != nil {
		return err
	}
	format := cmdutil.Formatter(r.svc)
	both := !r.flags.Incoming && !r.flags.Outgoing

	if r.flags.Incoming || both {
		reqs, err := r.svc.Request.ListIncoming(address)
		if err != nil {
			return err
		}
		if err := views.RenderRequestList("Incoming requests", reqs, true, format); err != nil {
			return err
		}
	}
	if r.flags.Outgoing || both {
		reqs, err := r.svc.Request.ListOutgoing(address)
		if err != nil {
			return err
		}
		if err := views.RenderRequestList("Outgoing requests", reqs, false, format); err != nil {
			return err
		}
	}
	return nil
}
