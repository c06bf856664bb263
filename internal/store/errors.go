package store

import (
	"errors"
	"fmt"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

// Both sentinels wrap their model kind so callers above the store can match
// on the model taxonomy alone.
var (
	ErrAccountExists       = fmt.Errorf("account already exists: %w", model.ErrAccountExists)
	ErrRecordNotFound      = fmt.Errorf("record not found: %w", model.ErrNotFound)
	ErrConstraintViolation = errors.New("database constraint violation")
)
