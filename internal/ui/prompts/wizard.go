package prompts

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/validation"
)

const (
	SplitModeEven   = "even"
	SplitModeCustom = "custom"
)

// ShareInput is one participant entered in the split wizard. Amount is empty
// for even splits.
type ShareInput struct {
	Address string
	Amount  string
}

// PromptSplitWizard collects the participants of a bill split one by one
// until the user stops adding.
func PromptSplitWizard(creator string, amountValidator func(string) error) (string, []ShareInput, error) {
	mode := SplitModeEven

	err := huh.NewSelect[string]().
		Title("How should the bill be split?").
		Description("Even splits divide the total between the participants you add").
		Options(
			huh.NewOption("Evenly", SplitModeEven),
			huh.NewOption("Custom shares", SplitModeCustom),
		).
		Value(&mode).
		Run()
	if err != nil {
		return "", nil, err
	}

	var shares []ShareInput
	seen := map[string]bool{creator: true}
	for {
		var share ShareInput
		fields := []huh.Field{
			huh.NewInput().
				Title(fmt.Sprintf("Participant #%d address:", len(shares)+1)).
				Value(&share.Address).
				Validate(func(s string) error {
					if err := validation.ValidateAddress(s); err != nil {
						return err
					}
					if seen[s] {
						return errors.New("address already in this split")
					}
					return nil
				}),
		}
		if mode == SplitModeCustom {
			fields = append(fields, huh.NewInput().
				Title("Share amount:").
				Value(&share.Amount).
				Validate(amountValidator))
		}

		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return "", nil, err
		}
		seen[share.Address] = true
		shares = append(shares, share)

		more, err := PromptConfirm("Add another participant?", true)
		if err != nil {
			return "", nil, err
		}
		if !more {
			break
		}
	}

	return mode, shares, nil
}
