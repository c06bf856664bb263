package views

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui"
)

func colorEmiStatus(status model.EmiStatus) string {
	switch status {
	case model.EmiCompleted:
		return pterm.Green(status.String())
	case model.EmiDefaulted:
		return pterm.Red(status.String())
	default:
		return pterm.Cyan(status.String())
	}
}

func RenderAgreementDetail(a *model.EmiAgreement, format func(int64) string) error {
	autoPay := pterm.Gray("not approved")
	if a.AutoPayApproved {
		autoPay = pterm.Green("approved")
	}
	pending := "-"
	if a.Pending != nil {
		pending = pterm.Yellow(fmt.Sprintf("%s %s (%s)", a.Pending.Purpose, format(a.Pending.Amount), a.Pending.Hash))
	}
	nextDue := formatDate(a.NextPaymentDue)
	if a.IsTerminal() {
		nextDue = "-"
	}

	ui.PrintL2Title("EMI Agreement")
	tableData := pterm.TableData{
		{pterm.Blue("ID"), a.ID},
		{pterm.Blue("User"), a.User},
		{pterm.Blue("Company"), a.Company},
		{pterm.Blue("Description"), orDash(a.Description)},
		{pterm.Blue("Total"), format(a.TotalAmount)},
		{pterm.Blue("Monthly"), format(a.MonthlyAmount)},
		{pterm.Blue("Progress"), fmt.Sprintf("%d/%d months", a.MonthsPaid, a.Months)},
		{pterm.Blue("Remaining"), format(a.RemainingAmount())},
		{pterm.Blue("Next Due"), nextDue},
		{pterm.Blue("Status"), colorEmiStatus(a.Status)},
		{pterm.Blue("Auto-Pay"), autoPay},
		{pterm.Blue("Escrow"), fmt.Sprintf("%s (%s)", format(a.AutoPayBalance), a.EscrowAddress())},
		{pterm.Blue("Pending Transfer"), pending},
	}
	return pterm.DefaultTable.WithData(tableData).Render()
}

func RenderAgreementList(title string, agreements []*model.EmiAgreement, format func(int64) string) error {
	pterm.DefaultSection.Println(title)
	if len(agreements) == 0 {
		pterm.Info.Println("No agreements")
		return nil
	}

	tableData := pterm.TableData{{"ID", "User", "Company", "Monthly", "Progress", "Next Due", "Escrow", "Status"}}
	for _, a := range agreements {
		nextDue := formatDate(a.NextPaymentDue)
		if a.IsTerminal() {
			nextDue = "-"
		}
		tableData = append(tableData, []string{
			a.ID,
			a.User,
			a.Company,
			format(a.MonthlyAmount),
			fmt.Sprintf("%d/%d", a.MonthsPaid, a.Months),
			nextDue,
			format(a.AutoPayBalance),
			colorEmiStatus(a.Status),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

// RenderInstallmentOutcomes prints the result of processing due installments.
func RenderInstallmentOutcomes(outcomes []service.InstallmentOutcome) error {
	if len(outcomes) == 0 {
		pterm.Info.Println("No agreements to process")
		return nil
	}

	tableData := pterm.TableData{{"Agreement", "Result", "Progress", "Detail"}}
	for _, o := range outcomes {
		result := o.Result.String()
		switch o.Result {
		case service.ResultPaid:
			result = pterm.Green(result)
		case service.ResultDefaulted, service.ResultFailed:
			result = pterm.Red(result)
		case service.ResultPending, service.ResultInGrace:
			result = pterm.Yellow(result)
		}

		progress := "-"
		if o.Agreement != nil {
			progress = fmt.Sprintf("%d/%d", o.Agreement.MonthsPaid, o.Agreement.Months)
		}
		detail := "-"
		switch {
		case o.Err != nil:
			detail = o.Err.Error()
		case o.Transaction != nil:
			detail = o.Transaction.Hash
		}
		tableData = append(tableData, []string{o.AgreementID, result, progress, detail})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
