package tui

import (
	"github.com/manifoldco/promptui"

	"shireesh.com/framegen/internal/subst"
)

// PromptProjectName asks for a project name until a valid one is entered.
func PromptProjectName(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: subst.ValidateProjectName,
	}
	return prompt.Run()
}
