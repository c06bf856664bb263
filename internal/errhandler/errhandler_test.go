package errhandler

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		contains string
	}{
		{"nil", nil, ExitOK, ""},
		{"interrupt", terminal.InterruptErr, ExitOK, "Cancelled"},
		{"pending", fmt.Errorf("transfer 0xabc: %w", model.ErrConfirmationUnknown), ExitPending, "reconcile"},
		{"balance", fmt.Errorf("alice: %w", model.ErrInsufficientBalance), ExitFailure, "[InsufficientBalance]"},
		{"split", &model.InvalidSplit{Reason: "shares do not sum"}, ExitUsage, "[InvalidSplitData]"},
		{"internal", errors.New("disk on fire"), ExitInternal, "disk on fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.code, handle(&buf, tt.err))
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}
