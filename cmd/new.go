package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shireesh.com/framegen/internal/catalog"
	"shireesh.com/framegen/internal/generator"
	"shireesh.com/framegen/internal/subst"
)

type newOptions struct {
	template string
	from     string
	output   string
	vars     []string
	force    bool
	noHooks  bool
	dryRun   bool
}

func newNewCmd(a *app) *cobra.Command {
	var o newOptions

	cmd := &cobra.Command{
		Use:   "new <ProjectName>",
		Short: "Generate a project from a template set",
		Example: `  framegen new Widget --template wxGUI
  framegen new Widget --from ./my-templates/gtkGUI --var Author=Jane
  framegen new Widget -t qtGUI --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runNew(cmd, args[0], o)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.template, "template", "t", "", "name of the template set")
	flags.StringVar(&o.from, "from", "", "load the template set from a directory or zip archive")
	flags.StringVarP(&o.output, "output", "o", "", "parent directory of the new project (default from config)")
	flags.StringArrayVar(&o.vars, "var", nil, "extra token value as Name=value (repeatable)")
	flags.BoolVar(&o.force, "force", false, "write into an existing non-empty project directory")
	flags.BoolVar(&o.noHooks, "no-hooks", false, "do not run pre.sh/post.sh hooks")
	flags.BoolVar(&o.dryRun, "dry-run", false, "render and list files without writing them")
	cmd.MarkFlagsMutuallyExclusive("template", "from")
	cmd.MarkFlagsOneRequired("template", "from")
	return cmd
}

func (a *app) runNew(cmd *cobra.Command, projectName string, o newOptions) error {
	vars, err := parseVars(o.vars)
	if err != nil {
		return err
	}

	ref := o.template
	if o.from != "" {
		ref = o.from
	}
	set, err := a.loadSet(ref, o.from != "")
	if err != nil {
		return err
	}

	output := o.output
	if output == "" {
		output = a.cfg.OutputDir
	}

	req := generator.Request{
		ProjectName: projectName,
		OutputDir:   output,
		Vars:        mergeVars(a.cfg.Variables, vars),
		Overwrite:   o.force || a.cfg.Overwrite,
		Hooks:       a.cfg.Hooks && !o.noHooks,
		DryRun:      o.dryRun,
	}
	return a.generate(cmd, set, req)
}

func (a *app) generate(cmd *cobra.Command, set *catalog.Set, req generator.Request) error {
	res, err := a.generator(cmd).Generate(cmd.Context(), set, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if req.DryRun {
		for _, f := range res.Files {
			fmt.Fprintln(out, f.Path)
		}
		return nil
	}
	fmt.Fprintf(out, "Created %s from %s (%d files)\n", res.Dir, set.Manifest.Name, len(res.Files))
	return nil
}

func (a *app) loadSet(ref string, fromDisk bool) (*catalog.Set, error) {
	if fromDisk {
		return a.catalog().Resolve(ref)
	}
	return a.catalog().Load(ref)
}

func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --var %q, expected Name=value", p)
		}
		if err := subst.ValidateVariableName(k); err != nil {
			return nil, fmt.Errorf("invalid --var %q: %w", p, err)
		}
		vars[k] = v
	}
	return vars, nil
}

func mergeVars(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
