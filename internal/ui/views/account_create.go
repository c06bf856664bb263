package views

import (
	"github.com/pterm/pterm"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ledger"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui"
)

func RenderAccountSuccess(acc *model.Account, format func(int64) string) error {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("Address"), acc.Address},
		{pterm.Blue("Balance"), format(acc.Balance)},
		{pterm.Blue("Created"), formatTime(acc.CreatedAt)},
	}

	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Success.Print("Account created successfully!\n")

	return nil
}

func RenderBalance(address string, balance int64, format func(int64) string) {
	pterm.Info.Printf("%s: %s\n", address, pterm.Bold.Sprint(format(balance)))
}

func RenderBalanceCheck(check ledger.BalanceCheck, format func(int64) string) error {
	tableData := pterm.TableData{
		{pterm.Blue("Address"), check.Address},
		{pterm.Blue("Local"), format(check.Local)},
		{pterm.Blue("Authority"), format(check.Remote)},
	}
	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	if check.InSync() {
		pterm.Success.Println("Local balance matches the ledger authority")
	} else {
		pterm.Warning.Printf("Local balance drifted by %s\n", format(check.Drift()))
	}
	return nil
}
