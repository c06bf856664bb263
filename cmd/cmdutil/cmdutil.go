// Package cmdutil holds the flag and prompt helpers shared by the command
// packages.
package cmdutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/service"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/ui/prompts"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/validation"
)

// FlagAs names the persistent flag carrying the acting address.
const FlagAs = "as"

// Interactive can be replaced in tests.
var Interactive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// Acting returns the address the command acts as, prompting for it when the
// flag is missing and the terminal is interactive.
func Acting(cmd *cobra.Command) (string, error) {
	acting, _ := cmd.Flags().GetString(FlagAs)
	return Address(acting, "--"+FlagAs, "Acting as address:")
}

// Address validates value, or prompts for it when it is empty.
func Address(value, flag, title string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		if !Interactive() {
			return "", fmt.Errorf("%s is required", flag)
		}
		return prompts.PromptAddress(title)
	}
	if err := validation.ValidateAddress(value); err != nil {
		return "", fmt.Errorf("invalid %s: %w", flag, err)
	}
	return value, nil
}

// PickAccount is Address for a known account: an interactive terminal
// offers the existing accounts instead of a free-text prompt.
func PickAccount(svc *service.Service, value, flag, title string) (string, error) {
	if strings.TrimSpace(value) != "" || !Interactive() {
		return Address(value, flag, title)
	}
	accounts, err := svc.Account.List()
	if err != nil {
		return "", err
	}
	return prompts.PromptAccountSelection(accounts, title, Formatter(svc))
}

// Amount parses a positive amount, prompting for it when raw is empty.
func Amount(svc *service.Service, raw, flag, title string) (int64, error) {
	validator := validation.AmountValidator(svc.Settings.Decimals)

	if strings.TrimSpace(raw) == "" {
		if !Interactive() {
			return 0, fmt.Errorf("%s is required", flag)
		}
		var err error
		raw, err = prompts.PromptAmount(title, fmt.Sprintf("In %s, up to %d decimals", svc.Settings.Currency, svc.Settings.Decimals), validator)
		if err != nil {
			return 0, err
		}
	}

	if err := validator(raw); err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrInvalidAmount, err)
	}
	return svc.Account.ParseAmount(raw)
}

// Description validates an optional free-text description.
func Description(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if err := validation.ValidateDescription(raw); err != nil {
		return "", err
	}
	return raw, nil
}

// ConfirmAction asks before an irreversible action. yes skips the question;
// without a terminal the action needs --yes.
func ConfirmAction(yes bool, message string) (bool, error) {
	if yes {
		return true, nil
	}
	if !Interactive() {
		return false, fmt.Errorf("refusing to continue without confirmation, pass --yes")
	}
	return ui.ConfirmDestructive(message)
}

// Formatter renders minor units with the currency code appended.
func Formatter(svc *service.Service) func(int64) string {
	return func(minor int64) string {
		return svc.Account.FormatAmount(minor) + " " + svc.Settings.Currency
	}
}
