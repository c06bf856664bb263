package views

import (
	"github.com/pterm/pterm"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui"
)

func colorRequestStatus(req *model.PaymentRequest) string {
	switch {
	case req.InFlight():
		return pterm.Yellow("Pending (in flight)")
	case req.Status == model.RequestPaid:
		return pterm.Green(req.Status.String())
	case req.Status == model.RequestRejected:
		return pterm.Red(req.Status.String())
	default:
		return req.Status.String()
	}
}

func RenderRequestDetail(req *model.PaymentRequest, format func(int64) string) error {
	resolved := "-"
	if req.ResolvedAt != nil {
		resolved = formatTime(*req.ResolvedAt)
	}

	ui.PrintL2Title("Payment Request")
	tableData := pterm.TableData{
		{pterm.Blue("ID"), req.ID},
		{pterm.Blue("Payer"), req.From},
		{pterm.Blue("Payee"), req.To},
		{pterm.Blue("Amount"), format(req.Amount)},
		{pterm.Blue("Description"), orDash(req.Description)},
		{pterm.Blue("Status"), colorRequestStatus(req)},
		{pterm.Blue("Transfer"), orDash(req.TransferHash)},
		{pterm.Blue("Created"), formatTime(req.CreatedAt)},
		{pterm.Blue("Resolved"), resolved},
	}
	return pterm.DefaultTable.WithData(tableData).Render()
}

// RenderRequestList prints requests; incoming lists show the payee, outgoing
// the payer.
func RenderRequestList(title string, reqs []*model.PaymentRequest, incoming bool, format func(int64) string) error {
	pterm.DefaultSection.Println(title)
	if len(reqs) == 0 {
		pterm.Info.Println("No requests")
		return nil
	}

	party := "Payer"
	if incoming {
		party = "Payee"
	}
	tableData := pterm.TableData{{"ID", party, "Amount", "Status", "Description", "Created"}}
	for _, req := range reqs {
		counterparty := req.From
		if incoming {
			counterparty = req.To
		}
		tableData = append(tableData, []string{
			req.ID,
			counterparty,
			format(req.Amount),
			colorRequestStatus(req),
			orDash(req.Description),
			formatTime(req.CreatedAt),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
