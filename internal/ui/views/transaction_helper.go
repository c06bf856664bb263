package views

import (
	"time"

	"github.com/pterm/pterm"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/constants"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(constants.TimeFormat)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(constants.DateFormat)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func colorKind(kind model.TxKind, s string) string {
	switch kind {
	case model.KindSent:
		return pterm.Red(s)
	case model.KindReceived:
		return pterm.Green(s)
	default:
		return pterm.Blue(s)
	}
}

func colorTxStatus(status model.TxStatus) string {
	switch status {
	case model.TxConfirmed:
		return pterm.Green(status.String())
	case model.TxFailed:
		return pterm.Red(status.String())
	default:
		return pterm.Yellow(status.String())
	}
}
