package emi

import (
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

func NewShowCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "show <agreement-id>",
		Short: "Show an EMI agreement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := svc.Emi.Get(args[0])
			if err != nil {
				return err
			}
			return views.RenderAgreementDetail(a, cmdutil.Formatter(svc))
		},
	}
}

type listFlags struct {
	Company bool
}

func NewListCmd(svc *service.Service) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the agreements of the acting address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := cmdutil.Acting(cmd)
			if err != nil {
				return err
			}
			format := cmdutil.Formatter(svc)

			if flags.Company {
				agreements, err := svc.Emi.ListByCompany(address)
				if err != nil {
					return err
				}
				return views.RenderAgreementList("Agreements paying "+address, agreements, format)
			}

			agreements, err := svc.Emi.ListByUser(address)
			if err != nil {
				return err
			}
			return views.RenderAgreementList("Agreements of "+address, agreements, format)
		},
	}

	cmd.Flags().BoolVar(&flags.Company, "company", false, "List agreements where you are the company")

	return cmd
}
