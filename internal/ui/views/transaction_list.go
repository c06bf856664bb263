package views

import (
	"github.com/pterm/pterm"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui"
)

type TransactionListView struct {
	format func(int64) string
}

func NewTransactionListView(format func(int64) string) *TransactionListView {
	return &TransactionListView{format: format}
}

// RenderHistory prints the ledger entries of one account, newest first.
func (v *TransactionListView) RenderHistory(address string, entries []*model.LedgerEntry, limit int) error {
	if len(entries) == 0 {
		pterm.Warning.Println("No transactions found")
		return nil
	}

	pterm.DefaultSection.Printf("History of %s (limit: %d)", address, limit)

	tableData := pterm.TableData{
		{"Hash", "Time", "Kind", "Counterparty", "Amount", "Status", "Note"},
	}

	for _, e := range entries {
		tx := e.Transaction
		counterparty := tx.To
		if e.Kind == model.KindReceived {
			counterparty = tx.From
		}
		if tx.External {
			counterparty = pterm.Gray("(mint)")
		}

		tableData = append(tableData, []string{
			ui.Short(tx.Hash),
			formatTime(tx.Timestamp),
			colorKind(e.Kind, e.Kind.String()),
			counterparty,
			colorKind(e.Kind, v.format(tx.Amount)),
			colorTxStatus(tx.Status),
			orDash(tx.Note),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(entries))
	return nil
}

// RenderTransactions prints a flat list of transaction records.
func (v *TransactionListView) RenderTransactions(title string, txs []*model.Transaction) error {
	if len(txs) == 0 {
		pterm.Info.Println("No transactions found")
		return nil
	}

	pterm.DefaultSection.Println(title)

	tableData := pterm.TableData{{"Hash", "Time", "From", "To", "Amount", "Status"}}
	for _, tx := range txs {
		tableData = append(tableData, []string{
			tx.Hash,
			formatTime(tx.Timestamp),
			tx.From,
			tx.To,
			v.format(tx.Amount),
			colorTxStatus(tx.Status),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(txs))
	return nil
}
