package model

import (
	"strings"
	"time"
)

// Account is a balance holder keyed by its address. Balances are kept in
// minor units (see config.DefaultsConfig.Decimals).
type Account struct {
	Address   string
	Balance   int64
	CreatedAt time.Time
}

// EscrowPrefix marks engine-owned accounts that hold EMI auto-pay funds.
const EscrowPrefix = "escrow:"

// EscrowAddress returns the escrow account address of an EMI agreement.
func EscrowAddress(agreementID string) string {
	return EscrowPrefix + agreementID
}

// IsEscrow reports whether address names an agreement escrow account.
func IsEscrow(address string) bool {
	return strings.HasPrefix(address, EscrowPrefix)
}
