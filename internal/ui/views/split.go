package views

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui"
)

func colorSplitStatus(status model.SplitStatus) string {
	switch status {
	case model.SplitCompleted:
		return pterm.Green(status.String())
	case model.SplitPartial:
		return pterm.Yellow(status.String())
	default:
		return status.String()
	}
}

func RenderSplitDetail(split *model.BillSplit, format func(int64) string) error {
	pterm.Println()
	ui.PrintL2Title("Bill Split")
	infoData := pterm.TableData{
		{pterm.Blue("ID"), split.ID},
		{pterm.Blue("Creator"), split.CreatedBy},
		{pterm.Blue("Total"), format(split.TotalAmount)},
		{pterm.Blue("Creator Share"), format(split.CreatorShare)},
		{pterm.Blue("Collected"), format(split.PaidAmount())},
		{pterm.Blue("Description"), orDash(split.Description)},
		{pterm.Blue("Original Tx"), orDash(split.OriginalTxHash)},
		{pterm.Blue("Status"), colorSplitStatus(split.Status)},
		{pterm.Blue("Created"), formatTime(split.CreatedAt)},
	}
	if err := pterm.DefaultTable.WithData(infoData).Render(); err != nil {
		return err
	}

	pterm.Println()
	ui.PrintL2Title("Participants")
	tableData := pterm.TableData{{"Address", "Share", "Status", "Request", "Paid"}}
	unlinked := 0
	for _, p := range split.Participants {
		status := p.Status.String()
		if p.Status == model.ParticipantPaid {
			status = pterm.Green(status)
		}
		request := p.PaymentRequestID
		if !p.Linked() {
			request = pterm.Red("unlinked: " + p.LinkError)
			unlinked++
		}
		paid := "-"
		if p.PaidAt != nil {
			paid = formatTime(*p.PaidAt)
		}
		tableData = append(tableData, []string{p.Address, format(p.Amount), status, request, paid})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	if unlinked > 0 {
		pterm.Warning.Printf("%d participant(s) have no payment request, use 'aptex split retry %s <address>'\n", unlinked, split.ID)
	}
	return nil
}

func RenderSplitList(title string, splits []*model.BillSplit, format func(int64) string) error {
	pterm.DefaultSection.Println(title)
	if len(splits) == 0 {
		pterm.Info.Println("No bill splits")
		return nil
	}

	tableData := pterm.TableData{{"ID", "Creator", "Total", "Paid", "Status", "Description"}}
	for _, s := range splits {
		paid := 0
		for _, p := range s.Participants {
			if p.Status == model.ParticipantPaid {
				paid++
			}
		}
		tableData = append(tableData, []string{
			s.ID,
			s.CreatedBy,
			format(s.TotalAmount),
			fmt.Sprintf("%d/%d", paid, len(s.Participants)),
			colorSplitStatus(s.Status),
			orDash(s.Description),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
