package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// Confirm prompts the user with a yes/no question. Interrupt and decline
// both report false without an error.
func Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ConfirmTyped requires the user to type expected verbatim before a
// destructive action goes ahead.
func ConfirmTyped(label, expected string) (bool, error) {
	prompt := promptui.Prompt{
		Label: fmt.Sprintf("%s (type %q to confirm)", label, expected),
		Validate: func(input string) error {
			if strings.TrimSpace(input) != expected {
				return fmt.Errorf("input does not match %q", expected)
			}
			return nil
		},
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
