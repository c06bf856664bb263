package prompts

import (
	"time"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/constants"
)

const (
	OutcomeConfirmed = "Confirmed"
	OutcomeFailed    = "Failed"
)

// PromptSettleOutcome asks how a pending transfer ended.
func PromptSettleOutcome() (bool, error) {
	selected, err := PromptSelect("Outcome of the transfer:", []string{OutcomeConfirmed, OutcomeFailed}, OutcomeConfirmed)
	if err != nil {
		return false, err
	}
	return selected == OutcomeConfirmed, nil
}

// PromptDueDate prompts for the first installment date of an agreement.
func PromptDueDate(defaultDate time.Time) (string, error) {
	return PromptDate(
		"First payment due (YYYY-MM-DD):",
		defaultDate.Format(constants.DateFormat),
		"Press Enter for one month from today",
	)
}
