package views

import (
	"github.com/pterm/pterm"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

type AccountListView struct {
	format func(int64) string
}

func NewAccountListView(format func(int64) string) *AccountListView {
	return &AccountListView{format: format}
}

func (v *AccountListView) Render(accounts []*model.Account) error {
	if len(accounts) == 0 {
		pterm.Warning.Println("No accounts found")
		return nil
	}

	tableData := pterm.TableData{{"Address", "Balance", "Created"}}

	var total int64
	for _, acc := range accounts {
		balance := v.format(acc.Balance)
		address := acc.Address
		switch {
		case model.IsEscrow(acc.Address):
			address = pterm.Gray(address)
			balance = pterm.Gray(balance)
		case acc.Balance > 0:
			balance = pterm.Green(balance)
		}
		total += acc.Balance

		tableData = append(tableData, []string{address, balance, formatTime(acc.CreatedAt)})
	}

	pterm.DefaultSection.Printf("Account List")
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Total: %d accounts holding %s\n", len(accounts), v.format(total))

	return nil
}
