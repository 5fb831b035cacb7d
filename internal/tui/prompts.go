package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInteractiveDisabled is returned when interactive prompts are disabled via KNIT_TEST_NO_INTERACTIVE
var ErrInteractiveDisabled = fmt.Errorf("interactive prompts are disabled (KNIT_TEST_NO_INTERACTIVE is set)")

// ErrCanceled is returned when the operator interrupts a prompt
var ErrCanceled = errors.New("canceled")

func checkInteractiveAllowed() error {
	if os.Getenv("KNIT_TEST_NO_INTERACTIVE") != "" {
		return ErrInteractiveDisabled
	}
	return nil
}

func ask(prompt survey.Prompt, response interface{}) error {
	if err := checkInteractiveAllowed(); err != nil {
		return err
	}
	if err := survey.AskOne(prompt, response); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrCanceled
		}
		return err
	}
	return nil
}

// PromptConfirm prompts the user for yes/no confirmation
func PromptConfirm(message string, defaultValue bool) (bool, error) {
	var ok bool
	err := ask(&survey.Confirm{Message: message, Default: defaultValue}, &ok)
	return ok, err
}

// PromptTextInput prompts the user for a single line of text
func PromptTextInput(message, defaultValue string) (string, error) {
	var value string
	err := ask(&survey.Input{Message: message, Default: defaultValue}, &value)
	return value, err
}

// PromptMultiSelect asks the user to pick any number of options. Every
// option starts selected.
func PromptMultiSelect(message string, options []string) ([]string, error) {
	var selected []string
	err := ask(&survey.MultiSelect{Message: message, Options: options, Default: options}, &selected)
	return selected, err
}
