package split

import (
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

func NewShowCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "show <split-id>",
		Short: "Show a bill split and its participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			split, err := svc.Split.Get(args[0])
			if err != nil {
				return err
			}
			return views.RenderSplitDetail(split, cmdutil.Formatter(svc))
		},
	}
}

type listFlags struct {
	Created       bool
	Participating bool
}

func NewListCmd(svc *service.Service) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the bill splits of the acting address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := cmdutil.Acting(cmd)
			if err != nil {
				return err
			}
			format := cmdutil.Formatter(svc)
			both := !flags.Created && !flags.Participating

			if flags.Created || both {
				splits, err := svc.Split.ListByCreator(address)
				if err != nil {
					return err
				}
				if err := views.RenderSplitList("Splits you created", splits, format); err != nil {
					return err
				}
			}
			if flags.Participating || both {
				splits, err := svc.Split.ListByParticipant(address)
				if err != nil {
					return err
				}
				if err := views.RenderSplitList("Splits you take part in", splits, format); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.Created, "created", false, "Only splits you created")
	cmd.Flags().BoolVar(&flags.Participating, "participating", false, "Only splits you have to pay into")
	cmd.MarkFlagsMutuallyExclusive("created", "participating")

	return cmd
}
