package cmd

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"shireesh.com/framegen/internal/catalog"
	"shireesh.com/framegen/internal/config"
	"shireesh.com/framegen/internal/generator"
	"shireesh.com/framegen/internal/render"
	"shireesh.com/framegen/templates"
)

// Version is set at build time with -ldflags "-X shireesh.com/framegen/cmd.Version=...".
var Version = "dev"

type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg     config.Config
	logger  *slog.Logger
	builtin fs.FS
}

func NewRootCmd() *cobra.Command {
	a := &app{builtin: templates.FS()}

	rootCmd := &cobra.Command{
		Use:           "framegen",
		Short:         "Scaffold GUI application skeletons from templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractive(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath, "configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(
		newNewCmd(a),
		newListCmd(a),
		newCheckCmd(a),
		newPackCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	return nil
}

// catalog layers the user template directory, when present, over the built-in sets.
func (a *app) catalog() *catalog.Catalog {
	var layers []fs.FS
	if info, err := os.Stat(a.cfg.TemplatesDir); err == nil && info.IsDir() {
		layers = append(layers, os.DirFS(a.cfg.TemplatesDir))
	}
	layers = append(layers, a.builtin)
	return catalog.New(layers...)
}

func (a *app) renderer() *render.Renderer {
	return render.New(render.WithLogger(a.logger), render.WithWorkers(a.cfg.Workers))
}

func (a *app) generator(cmd *cobra.Command) *generator.Generator {
	return generator.New(
		generator.WithLogger(a.logger),
		generator.WithRenderer(a.renderer()),
		generator.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)
}
