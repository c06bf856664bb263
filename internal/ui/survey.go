package ui

import (
	"github.com/AlecAivazis/survey/v2"
)

// IconOption returns a survey option that sets the question icon to "-"
func IconOption() survey.AskOpt {
	return survey.WithIcons(func(icons *survey.IconSet) {
		icons.Question.Text = "-"
	})
}

// ConfirmDestructive asks a yes/no question before an irreversible action.
// The default answer is no.
func ConfirmDestructive(message string) (bool, error) {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed, IconOption()); err != nil {
		return false, err
	}
	return confirmed, nil
}
