package split

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/prompts"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/validation"
)

type createFlags struct {
	Total       string
	Even        []string
	Shares      []string
	Description string
	TxHash      string
}

type CreateCommandRunner struct {
	svc   *service.Service
	flags *createFlags
}

func NewCreateCmd(svc *service.Service) *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a bill split",
		Long: `Create a bill split owned by the acting address.

Split evenly between the participants:
  aptex split create --as alice --total 90 --even bob,carol -d dinner

Or with explicit shares that must add up to the total:
  aptex split create --as alice --total 100 --share bob=60 --share carol=40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &CreateCommandRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd)
		},
	}

	cmd.Flags().StringVarP(&flags.Total, "total", "t", "", "Total amount of the bill")
	cmd.Flags().StringSliceVar(&flags.Even, "even", nil, "Participants sharing the bill evenly")
	cmd.Flags().StringArrayVar(&flags.Shares, "share", nil, "Participant share as address=amount (repeatable)")
	cmd.Flags().StringVarP(&flags.Description, "description", "d", "", "What the bill is for")
	cmd.Flags().StringVar(&flags.TxHash, "tx", "", "Hash of the original payment, if any")
	cmd.MarkFlagsMutuallyExclusive("even", "share")

	return cmd
}

func (r *CreateCommandRunner) Run(cmd *cobra.Command) error {
	creator, err := cmdutil.Acting(cmd)
	if err != nil {
		return err
	}
	total, err := cmdutil.Amount(r.svc, r.flags.Total, "--total", "Bill total:")
	if err != nil {
		return err
	}
	desc, err := cmdutil.Description(r.flags.Description)
	if err != nil {
		return err
	}

	even, shares := r.flags.Even, r.flags.Shares
	if len(even) == 0 && len(shares) == 0 {
		if !cmdutil.Interactive() {
			return fmt.Errorf("one of --even or --share is required")
		}
		mode, inputs, err := prompts.PromptSplitWizard(creator, validation.AmountValidator(r.svc.Settings.Decimals))
		if err != nil {
			return err
		}
		for _, in := range inputs {
			if mode == prompts.SplitModeEven {
				even = append(even, in.Address)
			} else {
				shares = append(shares, in.Address+"="+in.Amount)
			}
		}
	}

	var split *model.BillSplit
	if len(even) > 0 {
		split, err = r.svc.Split.CreateEvenSplit(cmd.Context(), creator, total, desc, trimAll(even), r.flags.TxHash)
	} else {
		parsed, perr := r.parseShares(shares)
		if perr != nil {
			return perr
		}
		split, err = r.svc.Split.CreateSplit(cmd.Context(), creator, total, desc, parsed, r.flags.TxHash)
	}
	if err != nil {
		return err
	}

	pterm.Success.Printf("Bill split %s created\n", split.ID)
	return views.RenderSplitDetail(split, cmdutil.Formatter(r.svc))
}

func (r *CreateCommandRunner) parseShares(raw []string) ([]service.Share, error) {
	shares := make([]service.Share, 0, len(raw))
	for _, s := range raw {
		address, amount, ok := strings.Cut(s, "=")
		if !ok {
			return nil, &model.InvalidSplit{Reason: fmt.Sprintf("share %q is not address=amount", s)}
		}
		minor, err := cmdutil.Amount(r.svc, amount, "--share "+address, "Share of "+address+":")
		if err != nil {
			return nil, err
		}
		shares = append(shares, service.Share{Address: strings.TrimSpace(address), Amount: minor})
	}
	return shares, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
