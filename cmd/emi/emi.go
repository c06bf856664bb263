package emi

import (
	"errors"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd/cmdutil"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/views"
)

// now is the clock used for due-date checks.
var now = time.Now

func NewEmiCmd(svc *service.Service) *cobra.Command {
	emiCmd := &cobra.Command{
		Use:   "emi",
		Short: "Manage installment (EMI) agreements",
		Long: `EMI agreements spread a purchase over monthly installments paid by a user
to a company, either manually or automatically from a funded escrow.`,
	}

	emiCmd.AddCommand(NewCreateCmd(svc))
	emiCmd.AddCommand(NewApproveCmd(svc))
	emiCmd.AddCommand(NewFundCmd(svc))
	emiCmd.AddCommand(NewProcessCmd(svc))
	emiCmd.AddCommand(NewPayCmd(svc))
	emiCmd.AddCommand(NewWithdrawCmd(svc))
	emiCmd.AddCommand(NewShowCmd(svc))
	emiCmd.AddCommand(NewListCmd(svc))

	return emiCmd
}

// renderTransfer prints the agreement after a transfer and absorbs the
// pending outcome, which settles later.
func renderTransfer(svc *service.Service, a *model.EmiAgreement, tx *model.Transaction, err error) error {
	format := cmdutil.Formatter(svc)
	if tx != nil {
		views.RenderTransferResult(tx, format)
	}
	if errors.Is(err, model.ErrConfirmationUnknown) {
		pterm.Info.Println("The agreement is updated once the transfer settles")
		err = nil
	}
	if err != nil {
		return err
	}
	if a != nil {
		return views.RenderAgreementDetail(a, format)
	}
	return nil
}
