package cmd

import (
	"github.com/charmbracelet/huh"
)

// Prompter asks the user to approve a destructive run.
type Prompter interface {
	Confirm(title, description string) (bool, error)
}

// TUIPrompter implements Prompter with an interactive terminal form.
type TUIPrompter struct{}

// NewPrompter creates a new TUIPrompter.
func NewPrompter() Prompter {
	return &TUIPrompter{}
}

// Confirm shows a yes/no confirmation prompt.
func (p *TUIPrompter) Confirm(title, description string) (bool, error) {
	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}
