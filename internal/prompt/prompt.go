// Package prompt asks the user for missing login details.
package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
)

// ErrNotInteractive is returned when input is needed but stdin is not a terminal.
var ErrNotInteractive = errors.New("input required but stdin is not a terminal")

// Prompter reads values from the user.
type Prompter interface {
	Input(title, placeholder string) (string, error)
	Password(title string) (string, error)
}

// Terminal prompts on the controlling terminal using huh forms.
type Terminal struct{}

// Input displays a text prompt and returns the entered value.
func (Terminal) Input(title, placeholder string) (string, error) {
	if !IsInteractive() {
		return "", fmt.Errorf("%s: %w", title, ErrNotInteractive)
	}

	var value string
	input := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value).
		Validate(required)

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return value, nil
}

// Password displays a prompt with hidden input.
func (Terminal) Password(title string) (string, error) {
	if !IsInteractive() {
		return "", fmt.Errorf("%s: %w", title, ErrNotInteractive)
	}

	var value string
	input := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Validate(required)

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return value, nil
}

func required(s string) error {
	if s == "" {
		return errors.New("value is required")
	}
	return nil
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// Static answers prompts from fixed values. It is used when prompting is
// disabled and by tests.
type Static struct {
	Username string
	Secret   string
}

// Input returns the configured username.
func (s Static) Input(title, _ string) (string, error) {
	if s.Username == "" {
		return "", fmt.Errorf("%s: %w", title, ErrNotInteractive)
	}
	return s.Username, nil
}

// Password returns the configured password.
func (s Static) Password(title string) (string, error) {
	if s.Secret == "" {
		return "", fmt.Errorf("%s: %w", title, ErrNotInteractive)
	}
	return s.Secret, nil
}
