package prompts

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/validation"
)

// PromptAddress prompts for a wallet address.
func PromptAddress(message string) (string, error) {
	var address string

	err := huh.NewInput().
		Title(message).
		Value(&address).
		Validate(func(s string) error { return validation.ValidateAddress(s) }).
		Run()

	return address, err
}

// PromptInitialBalance prompts for initial balance with validation
func PromptInitialBalance(validator func(string) error) (string, error) {
	return PromptInput("Initial Balance (press Enter for 0):", "0", validator)
}

// PromptAccountSelection lets the user pick one of the known accounts.
// Escrow accounts are never offered.
func PromptAccountSelection(accounts []*model.Account, message string, format func(int64) string) (string, error) {
	var opts []huh.Option[string]
	for _, acc := range accounts {
		if model.IsEscrow(acc.Address) {
			continue
		}
		label := acc.Address
		if format != nil {
			label = fmt.Sprintf("%s (Balance: %s)", acc.Address, format(acc.Balance))
		}
		opts = append(opts, huh.NewOption(label, acc.Address))
	}

	if len(opts) == 0 {
		return "", fmt.Errorf("no accounts yet, create one with 'aptex account create'")
	}

	var selected string
	err := huh.NewSelect[string]().
		Title(message).
		Options(opts...).
		Value(&selected).
		Height(15).
		Run()

	return selected, err
}
