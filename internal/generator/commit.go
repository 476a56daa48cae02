package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"shireesh.com/framegen/internal/render"
)

type destState int

const (
	destMissing destState = iota
	destEmpty
	destPopulated
)

func inspectDest(dst string) (destState, error) {
	f, err := os.Open(dst)
	if errors.Is(err, os.ErrNotExist) {
		return destMissing, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", dst)
	}
	if _, err := f.Readdirnames(1); errors.Is(err, io.EOF) {
		return destEmpty, nil
	} else if err != nil {
		return 0, err
	}
	return destPopulated, nil
}

// commit stages files in a sibling of dst, runs beforeCommit on the stage and
// then moves the stage into place.
func (g *Generator) commit(ctx context.Context, log *slog.Logger, dst string, files []render.Rendered, overwrite bool, beforeCommit func(stage string) error) error {
	state, err := inspectDest(dst)
	if err != nil {
		return fmt.Errorf("failed to inspect output directory: %w", err)
	}
	if state == destPopulated && !overwrite {
		return fmt.Errorf("%w: %s", ErrOutputExists, dst)
	}

	parent := filepath.Dir(dst)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	stage, err := os.MkdirTemp(parent, "."+filepath.Base(dst)+"-stage-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stage)

	for _, f := range files {
		target := filepath.Join(stage, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to stage %s: %w", f.Path, err)
		}
		if err := os.WriteFile(target, f.Body, f.Mode); err != nil {
			return fmt.Errorf("failed to stage %s: %w", f.Path, err)
		}
	}
	log.Debug("staged project", slog.String("stage", stage), slog.Int("files", len(files)))

	if err := beforeCommit(stage); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch state {
	case destEmpty:
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("failed to replace empty output directory: %w", err)
		}
		fallthrough
	case destMissing:
		if err := os.Chmod(stage, 0o755); err != nil {
			return fmt.Errorf("failed to prepare output directory: %w", err)
		}
		if err := g.rename(stage, dst); err != nil {
			return fmt.Errorf("failed to commit project: %w", err)
		}
		return nil
	default:
		return g.merge(log, stage, dst)
	}
}

type placed struct {
	target string
	backup string
}

// merge moves everything in the stage, including files written by the pre
// hook, over an existing project. Replaced files are kept aside until every
// file is in place. On failure they are restored and directories created by
// the merge are removed.
func (g *Generator) merge(log *slog.Logger, stage, dst string) error {
	backupDir, err := os.MkdirTemp(filepath.Dir(dst), "."+filepath.Base(dst)+"-backup-*")
	if err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	defer os.RemoveAll(backupDir)

	var done []placed
	var created []string
	fail := func(err error) error {
		for i := len(done) - 1; i >= 0; i-- {
			p := done[i]
			if err := os.RemoveAll(p.target); err != nil {
				log.Error("rollback failed", slog.String("path", p.target), slog.Any("error", err))
			}
			if p.backup == "" {
				continue
			}
			if err := g.rename(p.backup, p.target); err != nil {
				log.Error("rollback failed", slog.String("path", p.target), slog.Any("error", err))
			}
		}
		for i := len(created) - 1; i >= 0; i-- {
			if err := os.Remove(created[i]); err != nil {
				log.Error("rollback failed", slog.String("path", created[i]), slog.Any("error", err))
			}
		}
		return err
	}

	return filepath.WalkDir(stage, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fail(err)
		}
		rel, err := filepath.Rel(stage, path)
		if err != nil {
			return fail(err)
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			dirs, err := mkdirAll(target)
			created = append(created, dirs...)
			if err != nil {
				return fail(fmt.Errorf("failed to commit %s: %w", rel, err))
			}
			return nil
		}

		p := placed{target: target}
		if _, err := os.Lstat(target); err == nil {
			p.backup = filepath.Join(backupDir, rel)
			if err := os.MkdirAll(filepath.Dir(p.backup), 0o755); err != nil {
				return fail(fmt.Errorf("failed to back up %s: %w", rel, err))
			}
			if err := g.rename(target, p.backup); err != nil {
				return fail(fmt.Errorf("failed to back up %s: %w", rel, err))
			}
		}
		if err := g.rename(path, target); err != nil {
			if p.backup != "" {
				done = append(done, p)
			}
			return fail(fmt.Errorf("failed to commit %s: %w", rel, err))
		}
		done = append(done, p)
		return nil
	})
}

// mkdirAll creates dir and any missing parents and returns the directories it
// created, outermost first.
func mkdirAll(dir string) ([]string, error) {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Lstat(d); err == nil {
			break
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}

	var created []string
	for i := len(missing) - 1; i >= 0; i-- {
		err := os.Mkdir(missing[i], 0o755)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return created, err
		}
		created = append(created, missing[i])
	}
	return created, nil
}
