package validation

import (
	"fmt"
	"strings"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/constants"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/utils"
)

// ValidateAddress checks the format of a user-supplied address.
// Accepts both string and any (for prompt compatibility)
func ValidateAddress(val any) error {
	address, ok := val.(string)
	if !ok {
		return fmt.Errorf("address must be a string")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("address can't be empty")
	}

	if model.IsEscrow(address) {
		return fmt.Errorf("'%s' is reserved for escrow accounts", model.EscrowPrefix)
	}

	if strings.ContainsAny(address, ": \t\n") {
		return fmt.Errorf("address cannot contain ':' or whitespace")
	}

	if len(address) > constants.MaxAddressLen {
		return fmt.Errorf("address too long (max %d characters)", constants.MaxAddressLen)
	}
	return nil
}

// AmountValidator returns a validator for positive decimal amounts with at
// most the given number of decimal places.
func AmountValidator(decimals int32) func(string) error {
	return func(input string) error {
		minor, err := utils.ParseAmount(strings.TrimSpace(input), decimals)
		if err != nil {
			return err
		}
		if minor <= 0 {
			return fmt.Errorf("amount must be greater than zero")
		}
		return nil
	}
}

// ValidateInitialBalance allows empty or zero input on top of positive
// amounts.
func ValidateInitialBalance(decimals int32) func(string) error {
	return func(input string) error {
		input = strings.TrimSpace(input)
		if input == "" || input == "0" {
			return nil
		}

		minor, err := utils.ParseAmount(input, decimals)
		if err != nil {
			return err
		}
		if minor < 0 {
			return fmt.Errorf("initial balance can't be negative")
		}
		return nil
	}
}

// ValidateDescription limits free-text descriptions.
func ValidateDescription(input string) error {
	if len(input) > constants.MaxDescriptionLen {
		return fmt.Errorf("description too long (max %d characters)", constants.MaxDescriptionLen)
	}
	return nil
}
