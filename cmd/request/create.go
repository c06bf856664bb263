package request

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

type createFlags struct {
	Payer       string
	Amount      string
	Description string
}

type CreateCommandRunner struct {
	svc   *service.Service
	flags *createFlags
}

func NewCreateCmd(svc *service.Service) *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Request money from another address",
		Long: `Request an amount from a payer. The acting address (--as) receives the funds
once the payer accepts.

Example: aptex request create --as bob --from alice --amount 25 -d "concert tickets"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &CreateCommandRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd)
		},
	}

	cmd.Flags().StringVarP(&flags.Payer, "from", "f", "", "Address that should pay")
	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Requested amount")
	cmd.Flags().StringVarP(&flags.Description, "description", "d", "", "What the request is for")

	return cmd
}

func (r *CreateCommandRunner) Run(cmd *cobra.Command) error {
	requester, err := cmdutil.Acting(cmd)
	if err != nil {
		return err
	}
	payer, err := cmdutil.Address(r.flags.Payer, "--from", "Payer address:")
	if err != nil {
		return err
	}
	amount, err := cmdutil.Amount(r.svc, r.flags.Amount, "--amount", "Requested amount:")
	if err != nil {
		return err
	}
	desc, err := cmdutil.Description(r.flags.Description)
	if err != nil {
		return err
	}

	req, err := r.svc.Request.Create(cmd.Context(), payer, requester, amount, desc)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Payment request %s created\n", req.ID)
	return views.RenderRequestDetail(req, cmdutil.Formatter(r.svc))
}
