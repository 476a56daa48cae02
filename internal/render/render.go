// Package render turns a template set and a project name into the complete
// set of rendered files. Rendering is all or nothing: a single bad token in
// any file fails the whole set.
package render

import (
	"fmt"
	"io/fs"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"shireesh.com/framegen/internal/subst"
)

// File is one template of a set. Path is slash separated and may contain tokens.
type File struct {
	Path string
	Body []byte
	Mode fs.FileMode
}

// Set is an ordered collection of templates for one project skeleton.
type Set struct {
	Name  string
	Files []File
}

// Rendered is a fully substituted output file.
type Rendered struct {
	Path string
	Body []byte
	Mode fs.FileMode
}

type Renderer struct {
	logger  *slog.Logger
	workers int
	options []subst.Option
}

type Option func(*Renderer)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithWorkers bounds how many files render concurrently. Values below one
// select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		r.workers = n
	}
}

// WithContextOptions forwards options to the substitution context of every run.
func WithContextOptions(opts ...subst.Option) Option {
	return func(r *Renderer) {
		r.options = append(r.options, opts...)
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	return r
}

// Render renders every file of set for projectName. The result preserves the
// order of set.Files. When several files fail, the error of the first one in
// set order is returned.
func (r *Renderer) Render(set Set, projectName string, vars map[string]string) ([]Rendered, error) {
	opts := append([]subst.Option{subst.WithVariables(vars)}, r.options...)
	sc, err := subst.NewContext(projectName, opts...)
	if err != nil {
		return nil, err
	}
	if len(set.Files) == 0 {
		return nil, fmt.Errorf("%s: %w", set.Name, ErrEmptySet)
	}

	out := make([]Rendered, len(set.Files))
	errs := make([]error, len(set.Files))

	// Index of the first failed file so far; files after it are skipped.
	var firstFailed atomic.Int64
	firstFailed.Store(int64(len(set.Files)))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, f := range set.Files {
		g.Go(func() error {
			if int64(i) > firstFailed.Load() {
				return nil
			}
			rf, err := renderFile(sc, f)
			if err != nil {
				errs[i] = err
				for {
					cur := firstFailed.Load()
					if int64(i) >= cur || firstFailed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
				return nil
			}
			out[i] = rf
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]string, len(out))
	for i, rf := range out {
		if prev, ok := seen[rf.Path]; ok {
			return nil, &FileError{Path: set.Files[i].Path, Part: "path", Err: fmt.Errorf("%w %q, also produced by %s", ErrDuplicatePath, rf.Path, prev)}
		}
		seen[rf.Path] = set.Files[i].Path
	}

	r.logger.Debug("rendered template set",
		slog.String("set", set.Name),
		slog.String("project", projectName),
		slog.Int("files", len(out)))
	return out, nil
}

func renderFile(sc *subst.Context, f File) (Rendered, error) {
	p, err := sc.Expand(f.Path)
	if err != nil {
		return Rendered{}, &FileError{Path: f.Path, Part: "path", Err: err}
	}
	if !fs.ValidPath(p) {
		return Rendered{}, &FileError{Path: f.Path, Part: "path", Err: fmt.Errorf("%w: %q", ErrUnsafePath, p)}
	}

	body, err := sc.Expand(string(f.Body))
	if err != nil {
		return Rendered{}, &FileError{Path: f.Path, Part: "body", Err: err}
	}

	mode := f.Mode
	if mode == 0 {
		mode = 0o644
	}
	return Rendered{Path: p, Body: []byte(body), Mode: mode}, nil
}

// Render renders set with a default Renderer.
func Render(set Set, projectName string) ([]Rendered, error) {
	return New().Render(set, projectName, nil)
}
