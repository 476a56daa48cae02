// Package generator writes a rendered template set to disk as a new project.
// The whole set is staged next to the destination and committed in one step,
// so a failed run never leaves a half-generated project behind.
package generator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"shireesh.com/framegen/internal/catalog"
	"shireesh.com/framegen/internal/render"
)

var ErrOutputExists = errors.New("output directory exists and is not empty")

type Request struct {
	ProjectName string
	// OutputDir is the parent directory; the project is created in OutputDir/ProjectName.
	OutputDir string
	Vars      map[string]string
	Overwrite bool
	Hooks     bool
	DryRun    bool
}

type Result struct {
	RunID string
	Dir   string
	Files []render.Rendered
}

type Generator struct {
	logger   *slog.Logger
	renderer *render.Renderer
	stdout   io.Writer
	stderr   io.Writer
	rename   func(oldpath, newpath string) error
}

type Option func(*Generator)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

func WithRenderer(r *render.Renderer) Option {
	return func(g *Generator) {
		g.renderer = r
	}
}

// WithOutput sets where hook scripts write their output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(g *Generator) {
		g.stdout = stdout
		g.stderr = stderr
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{
		logger: slog.Default(),
		stdout: os.Stdout,
		stderr: os.Stderr,
		rename: os.Rename,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.renderer == nil {
		g.renderer = render.New(render.WithLogger(g.logger))
	}
	return g
}

// Generate renders set for req and commits the result under
// req.OutputDir/req.ProjectName. Rendering errors abort before anything is
// written. A failing post hook is reported after the files are committed.
func (g *Generator) Generate(ctx context.Context, set *catalog.Set, req Request) (*Result, error) {
	res := &Result{
		RunID: uuid.NewString(),
		Dir:   filepath.Join(req.OutputDir, req.ProjectName),
	}
	log := g.logger.With(slog.String("run", res.RunID), slog.String("set", set.Manifest.Name))

	vars := make(map[string]string, len(set.Manifest.Variables)+len(req.Vars))
	for k, v := range set.Manifest.Variables {
		vars[k] = v
	}
	for k, v := range req.Vars {
		vars[k] = v
	}

	files, err := g.renderer.Render(set.Templates, req.ProjectName, vars)
	if err != nil {
		return nil, err
	}
	res.Files = files

	if req.DryRun {
		log.Debug("dry run, nothing written", slog.Int("files", len(files)))
		return res, nil
	}

	hooks := map[string][]byte{}
	if req.Hooks {
		hooks = set.Hooks
	}
	env := []string{
		"FRAMEGEN_PROJECT_NAME=" + req.ProjectName,
		"FRAMEGEN_TEMPLATE=" + set.Manifest.Name,
	}

	if err := g.commit(ctx, log, res.Dir, files, req.Overwrite, func(stage string) error {
		return g.runHook(ctx, log, hooks, "pre.sh", stage, env)
	}); err != nil {
		return nil, err
	}
	log.Info("generated project", slog.String("dir", res.Dir), slog.Int("files", len(files)))

	if err := g.runHook(ctx, log, hooks, "post.sh", res.Dir, env); err != nil {
		return res, err
	}
	return res, nil
}
