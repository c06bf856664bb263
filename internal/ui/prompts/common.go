package prompts

import (
	"strings"

	"github.com/charmbracelet/huh"
)

// Text answers are trimmed. When a fallback is shown as the placeholder, an
// empty answer returns the fallback and skips validation.

func PromptAmount(title, help string, validate func(string) error) (string, error) {
	return ask(title, help, "", validate)
}

func PromptInput(title, fallback string, validate func(string) error) (string, error) {
	return ask(title, "", fallback, validate)
}

// PromptDate leaves parsing to the caller.
func PromptDate(title, fallback, help string) (string, error) {
	return ask(title, help, fallback, nil)
}

func ask(title, help, fallback string, validate func(string) error) (string, error) {
	var answer string
	input := huh.NewInput().Title(title).Value(&answer)
	if help != "" {
		input.Description(help)
	}
	if fallback != "" {
		input.Placeholder(fallback)
	}
	if validate != nil {
		input.Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" && fallback != "" {
				return nil
			}
			return validate(s)
		})
	}

	if err := input.Run(); err != nil {
		return "", err
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return fallback, nil
	}
	return answer, nil
}

func PromptConfirm(title string, def bool) (bool, error) {
	answer := def
	err := huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&answer).Run()
	return answer, err
}

// PromptSelect starts on def, which should be one of choices.
func PromptSelect(title string, choices []string, def string) (string, error) {
	opts := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		opts = append(opts, huh.NewOption(c, c))
	}

	selected := def
	err := huh.NewSelect[string]().Title(title).Options(opts...).Value(&selected).Run()
	return selected, err
}
