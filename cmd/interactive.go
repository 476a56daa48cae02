package cmd

import (
	"github.com/spf13/cobra"

	"shireesh.com/framegen/internal/generator"
	"shireesh.com/framegen/internal/tui"
)

func (a *app) runInteractive(cmd *cobra.Command) error {
	templates, err := a.catalog().List()
	if err != nil {
		return err
	}
	tplName, err := tui.SelectTemplate(templates)
	if err != nil {
		return err
	}

	projectName, err := tui.PromptProjectName("Enter project name")
	if err != nil {
		return err
	}

	set, err := a.catalog().Load(tplName)
	if err != nil {
		return err
	}
	return a.generate(cmd, set, generator.Request{
		ProjectName: projectName,
		OutputDir:   a.cfg.OutputDir,
		Vars:        a.cfg.Variables,
		Overwrite:   a.cfg.Overwrite,
		Hooks:       a.cfg.Hooks,
	})
}
