package errhandler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/model"
)

// Exit codes returned by HandleError.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitPending  = 3
	ExitInternal = 4
)

// HandleError prints err for the terminal and returns the process exit code.
func HandleError(err error) int {
	return handle(os.Stderr, err)
}

func handle(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}
	if isInterrupt(err) {
		pterm.Warning.WithWriter(w).Println("Operation Cancelled")
		return ExitOK
	}

	kind := model.KindOf(err)
	switch kind {
	case "ConfirmationUnknown":
		pterm.Warning.WithWriter(w).Println(err.Error())
		fmt.Fprintln(w, "The transfer is recorded as pending. Run 'aptex transaction reconcile' or 'aptex transaction settle' later.")
		return ExitPending
	case "Internal":
		fmt.Fprintf(w, "Error: %v\n", err)
		return ExitInternal
	case "InvalidAmount", "InvalidSplitData":
		fmt.Fprintf(w, "Error [%s]: %v\n", kind, err)
		return ExitUsage
	default:
		fmt.Fprintf(w, "Error [%s]: %v\n", kind, err)
		return ExitFailure
	}
}

func isInterrupt(err error) bool {
	return errors.Is(err, terminal.InterruptErr) ||
		errors.Is(err, huh.ErrUserAborted) ||
		strings.Contains(err.Error(), "interrupt")
}
