package views

import (
	"github.com/pterm/pterm"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui"
)

func RenderTransactionDetail(tx *model.Transaction, format func(int64) string) error {
	from := tx.From
	if tx.External {
		from = pterm.Gray("(external mint)")
	}

	pterm.Println()
	ui.PrintL2Title("Transaction Info")
	infoData := pterm.TableData{
		{"Field", "Value"},
		{"Hash", tx.Hash},
		{"Time", formatTime(tx.Timestamp)},
		{"From", from},
		{"To", tx.To},
		{"Amount", format(tx.Amount)},
		{"Status", colorTxStatus(tx.Status)},
		{"Note", orDash(tx.Note)},
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(infoData).
		Render()
}

// RenderTransferResult prints the outcome of a submitted transfer.
func RenderTransferResult(tx *model.Transaction, format func(int64) string) {
	switch tx.Status {
	case model.TxPending:
		pterm.Warning.Printf("Transfer %s of %s is pending confirmation\n", tx.Hash, format(tx.Amount))
	default:
		pterm.Success.Printf("Sent %s from %s to %s (%s)\n", format(tx.Amount), tx.From, tx.To, tx.Hash)
	}
}
