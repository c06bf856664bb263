package emi

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/constants"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/prompts"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

type createFlags struct {
	Company     string
	Total       string
	Monthly     string
	Months      int
	FirstDue    string
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
		Short: "Create an EMI agreement",
		Long: `Create an installment agreement where the acting address pays a company
in equal monthly installments.

Example: aptex emi create --as alice --company shop --total 1200 --months 12 --first-due 2026-03-15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &CreateCommandRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd)
		},
	}

	cmd.Flags().StringVar(&flags.Company, "company", "", "Address receiving the installments")
	cmd.Flags().StringVarP(&flags.Total, "total", "t", "", "Total amount financed")
	cmd.Flags().StringVar(&flags.Monthly, "monthly", "", "Monthly installment (defaults to total / months)")
	cmd.Flags().IntVarP(&flags.Months, "months", "m", 0, "Number of monthly installments")
	cmd.Flags().StringVar(&flags.FirstDue, "first-due", "", "First due date (YYYY-MM-DD, defaults to one month from now)")
	cmd.Flags().StringVarP(&flags.Description, "description", "d", "", "What is being financed")

	return cmd
}

func (r *CreateCommandRunner) Run(cmd *cobra.Command) error {
	user, err := cmdutil.Acting(cmd)
	if err != nil {
		return err
	}
	company, err := cmdutil.Address(r.flags.Company, "--company", "Company address:")
	if err != nil {
		return err
	}
	total, err := cmdutil.Amount(r.svc, r.flags.Total, "--total", "Total amount:")
	if err != nil {
		return err
	}

	months := r.flags.Months
	if months <= 0 {
		return fmt.Errorf("--months must be positive: %w", model.ErrInvalidAmount)
	}

	monthly := total / int64(months)
	if r.flags.Monthly != "" {
		if monthly, err = cmdutil.Amount(r.svc, r.flags.Monthly, "--monthly", ""); err != nil {
			return err
		}
	}

	desc, err := cmdutil.Description(r.flags.Description)
	if err != nil {
		return err
	}

	firstDue, err := r.firstDue()
	if err != nil {
		return err
	}

	a, err := r.svc.Emi.CreateAgreement(cmd.Context(), service.AgreementTerms{
		User:          user,
		Company:       company,
		Description:   desc,
		TotalAmount:   total,
		MonthlyAmount: monthly,
		Months:        months,
		FirstDue:      firstDue,
	})
	if err != nil {
		return err
	}

	pterm.Success.Printf("EMI agreement %s created\n", a.ID)
	return views.RenderAgreementDetail(a, cmdutil.Formatter(r.svc))
}

func (r *CreateCommandRunner) firstDue() (time.Time, error) {
	raw := r.flags.FirstDue
	if raw == "" && cmdutil.Interactive() {
		var err error
		if raw, err = prompts.PromptDueDate(model.AddMonths(now(), 1)); err != nil {
			return time.Time{}, err
		}
	}
	if raw == "" {
		return time.Time{}, nil
	}

	due, err := time.ParseInLocation(constants.DateFormat, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --first-due %q (expected YYYY-MM-DD)", raw)
	}
	return due, nil
}
