package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

var ErrHookFailed = errors.New("hook failed")

// runHook runs the named hook script with bash in workDir. Missing hooks are
// skipped.
func (g *Generator) runHook(ctx context.Context, log *slog.Logger, hooks map[string][]byte, name, workDir string, env []string) error {
	script, ok := hooks[name]
	if !ok {
		return nil
	}

	dir, err := os.MkdirTemp("", "framegen-hook-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrHookFailed, name, err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, script, 0o700); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrHookFailed, name, err)
	}

	log.Info("running hook", slog.String("hook", name), slog.String("dir", workDir))
	cmd := exec.CommandContext(ctx, "bash", path)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = g.stdout
	cmd.Stderr = g.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrHookFailed, name, err)
	}
	return nil
}
