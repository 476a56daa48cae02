package generator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shireesh.com/framegen/internal/catalog"
	"shireesh.com/framegen/internal/render"
	"shireesh.com/framegen/internal/subst"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSet() *catalog.Set {
	return &catalog.Set{
		Manifest: catalog.Manifest{Name: "wxGUI", Variables: map[string]string{"Version": "0.01"}},
		Templates: render.Set{Name: "wxGUI", Files: []render.File{
			{Path: "$(ProjectName).cpp", Body: []byte("IMPLEMENT_APP( $(ProjectName)App )\n")},
			{Path: "$(ProjectName)Frame.cpp", Body: []byte("info.SetVersion( wxT(\"$(Version)\") );\n")},
			{Path: "res/$(ProjectName:lower()).txt", Body: []byte("icons\n")},
		}},
		Hooks: map[string][]byte{},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// leftovers returns entries of dir other than keep, such as stage or backup directories.
func leftovers(t *testing.T, dir string, keep ...string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		if !contains(keep, e.Name()) {
			out = append(out, e.Name())
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestGenerate(t *testing.T) {
	out := t.TempDir()
	g := New(WithLogger(quietLogger()))

	res, err := g.Generate(context.Background(), testSet(), Request{ProjectName: "Acme", OutputDir: out})
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "Acme"), res.Dir)
	require.Len(t, res.Files, 3)

	assert.Equal(t, "IMPLEMENT_APP( AcmeApp )\n", readFile(t, filepath.Join(res.Dir, "Acme.cpp")))
	assert.Equal(t, "info.SetVersion( wxT(\"0.01\") );\n", readFile(t, filepath.Join(res.Dir, "AcmeFrame.cpp")))
	assert.Equal(t, "icons\n", readFile(t, filepath.Join(res.Dir, "res", "acme.txt")))
	assert.Empty(t, leftovers(t, out, "Acme"))
}

func TestGenerateRequestVarsOverrideManifest(t *testing.T) {
	out := t.TempDir()
	g := New(WithLogger(quietLogger()))

	res, err := g.Generate(context.Background(), testSet(), Request{
		ProjectName: "Acme",
		OutputDir:   out,
		Vars:        map[string]string{"Version": "1.2"},
	})
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(res.Dir, "AcmeFrame.cpp")), "1.2")
}

func TestGenerateRenderErrorWritesNothing(t *testing.T) {
	out := t.TempDir()
	set := testSet()
	set.Templates.Files = append(set.Templates.Files, render.File{Path: "AUTHORS", Body: []byte("$(Author)")})

	_, err := New(WithLogger(quietLogger())).Generate(context.Background(), set, Request{ProjectName: "Acme", OutputDir: out})
	assert.True(t, errors.Is(err, subst.ErrUnresolvedToken))
	assert.Empty(t, leftovers(t, out))
}

func TestGenerateInvalidProjectName(t *testing.T) {
	out := t.TempDir()

	_, err := New(WithLogger(quietLogger())).Generate(context.Background(), testSet(), Request{ProjectName: "", OutputDir: out})
	assert.True(t, errors.Is(err, subst.ErrInvalidProjectName))
	assert.Empty(t, leftovers(t, out))
}

func TestGenerateDryRun(t *testing.T) {
	out := t.TempDir()

	res, err := New(WithLogger(quietLogger())).Generate(context.Background(), testSet(), Request{ProjectName: "Acme", OutputDir: out, DryRun: true})
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	assert.Equal(t, "res/acme.txt", res.Files[2].Path)
	assert.Empty(t, leftovers(t, out))
}

func TestGenerateExistingOutput(t *testing.T) {
	out := t.TempDir()
	g := New(WithLogger(quietLogger()))

	require.NoError(t, os.MkdirAll(filepath.Join(out, "Empty"), 0o755))
	_, err := g.Generate(context.Background(), testSet(), Request{ProjectName: "Empty", OutputDir: out})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "Empty", "Empty.cpp"))

	require.NoError(t, os.MkdirAll(filepath.Join(out, "Busy"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "Busy", "notes.txt"), []byte("mine"), 0o644))
	_, err = g.Generate(context.Background(), testSet(), Request{ProjectName: "Busy", OutputDir: out})
	assert.True(t, errors.Is(err, ErrOutputExists))
	assert.Empty(t, leftovers(t, out, "Empty", "Busy"))

	require.NoError(t, os.WriteFile(filepath.Join(out, "File"), []byte("x"), 0o644))
	_, err = g.Generate(context.Background(), testSet(), Request{ProjectName: "File", OutputDir: out})
	assert.Error(t, err)
}

func TestGenerateOverwrite(t *testing.T) {
	out := t.TempDir()
	dst := filepath.Join(out, "Acme")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "Acme.cpp"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "notes.txt"), []byte("mine"), 0o644))

	_, err := New(WithLogger(quietLogger())).Generate(context.Background(), testSet(), Request{ProjectName: "Acme", OutputDir: out, Overwrite: true})
	require.NoError(t, err)

	assert.Equal(t, "IMPLEMENT_APP( AcmeApp )\n", readFile(t, filepath.Join(dst, "Acme.cpp")))
	assert.Equal(t, "mine", readFile(t, filepath.Join(dst, "notes.txt")))
	assert.FileExists(t, filepath.Join(dst, "res", "acme.txt"))
	assert.Empty(t, leftovers(t, out, "Acme"))
}

func TestGenerateOverwriteRollsBack(t *testing.T) {
	out := t.TempDir()
	dst := filepath.Join(out, "Acme")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "Acme.cpp"), []byte("old app"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "AcmeFrame.cpp"), []byte("old frame"), 0o644))

	g := New(WithLogger(quietLogger()))
	calls := 0
	g.rename = func(oldpath, newpath string) error {
		calls++
		// 1: back up Acme.cpp, 2: place Acme.cpp, 3: back up AcmeFrame.cpp, 4: place AcmeFrame.cpp
		if calls == 4 {
			return errors.New("disk full")
		}
		return os.Rename(oldpath, newpath)
	}

	_, err := g.Generate(context.Background(), testSet(), Request{ProjectName: "Acme", OutputDir: out, Overwrite: true})
	require.ErrorContains(t, err, "disk full")

	assert.Equal(t, "old app", readFile(t, filepath.Join(dst, "Acme.cpp")))
	assert.Equal(t, "old frame", readFile(t, filepath.Join(dst, "AcmeFrame.cpp")))
	assert.NoDirExists(t, filepath.Join(dst, "res"))
	assert.Empty(t, leftovers(t, out, "Acme"))
}

func TestGenerateOverwriteRollbackRemovesNewDirs(t *testing.T) {
	out := t.TempDir()
	dst := filepath.Join(out, "Acme")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "Acme.cpp"), []byte("old app"), 0o644))

	g := New(WithLogger(quietLogger()))
	g.rename = func(oldpath, newpath string) error {
		if filepath.Base(newpath) == "acme.txt" {
			return errors.New("disk full")
		}
		return os.Rename(oldpath, newpath)
	}

	_, err := g.Generate(context.Background(), testSet(), Request{ProjectName: "Acme", OutputDir: out, Overwrite: true})
	require.ErrorContains(t, err, "disk full")

	assert.Equal(t, "old app", readFile(t, filepath.Join(dst, "Acme.cpp")))
	assert.NoFileExists(t, filepath.Join(dst, "AcmeFrame.cpp"))
	assert.NoDirExists(t, filepath.Join(dst, "res"))
	assert.Equal(t, []string{"Acme.cpp"}, leftovers(t, dst))
	assert.Empty(t, leftovers(t, out, "Acme"))
}

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
}

func TestGenerateHooks(t *testing.T) {
	requireBash(t)
	out := t.TempDir()
	set := testSet()
	set.Hooks = map[string][]byte{
		"pre.sh":  []byte("echo \"$FRAMEGEN_PROJECT_NAME\" > pre-ran.txt\n"),
		"post.sh": []byte("echo \"post in $(basename \"$(pwd -P)\")\"\n"),
	}

	var stdout bytes.Buffer
	g := New(WithLogger(quietLogger()), WithOutput(&stdout, io.Discard))
	res, err := g.Generate(context.Background(), set, Request{ProjectName: "Acme", OutputDir: out, Hooks: true})
	require.NoError(t, err)

	assert.Equal(t, "Acme\n", readFile(t, filepath.Join(res.Dir, "pre-ran.txt")))
	assert.Equal(t, "post in Acme\n", stdout.String())
}

func TestGenerateHooksOverwrite(t *testing.T) {
	requireBash(t)
	out := t.TempDir()
	dst := filepath.Join(out, "Acme")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "notes.txt"), []byte("mine"), 0o644))

	set := testSet()
	set.Hooks = map[string][]byte{"pre.sh": []byte("echo hi > pre-ran.txt\nmkdir -p build/cache\n")}

	_, err := New(WithLogger(quietLogger()), WithOutput(io.Discard, io.Discard)).Generate(context.Background(), set, Request{
		ProjectName: "Acme",
		OutputDir:   out,
		Hooks:       true,
		Overwrite:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "hi\n", readFile(t, filepath.Join(dst, "pre-ran.txt")))
	assert.DirExists(t, filepath.Join(dst, "build", "cache"))
	assert.Equal(t, "mine", readFile(t, filepath.Join(dst, "notes.txt")))
	assert.FileExists(t, filepath.Join(dst, "Acme.cpp"))
	assert.Empty(t, leftovers(t, out, "Acme"))
}

func TestGenerateHooksDisabled(t *testing.T) {
	requireBash(t)
	out := t.TempDir()
	set := testSet()
	set.Hooks = map[string][]byte{"pre.sh": []byte("touch pre-ran.txt\n")}

	res, err := New(WithLogger(quietLogger())).Generate(context.Background(), set, Request{ProjectName: "Acme", OutputDir: out})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(res.Dir, "pre-ran.txt"))
}

func TestGenerateFailingPreHookWritesNothing(t *testing.T) {
	requireBash(t)
	out := t.TempDir()
	set := testSet()
	set.Hooks = map[string][]byte{"pre.sh": []byte("exit 3\n")}

	_, err := New(WithLogger(quietLogger()), WithOutput(io.Discard, io.Discard)).Generate(context.Background(), set, Request{ProjectName: "Acme", OutputDir: out, Hooks: true})
	assert.True(t, errors.Is(err, ErrHookFailed))
	assert.Empty(t, leftovers(t, out))
}

func TestGenerateFailingPostHookKeepsProject(t *testing.T) {
	requireBash(t)
	out := t.TempDir()
	set := testSet()
	set.Hooks = map[string][]byte{"post.sh": []byte("exit 1\n")}

	res, err := New(WithLogger(quietLogger()), WithOutput(io.Discard, io.Discard)).Generate(context.Background(), set, Request{ProjectName: "Acme", OutputDir: out, Hooks: true})
	assert.True(t, errors.Is(err, ErrHookFailed))
	require.NotNil(t, res)
	assert.FileExists(t, filepath.Join(res.Dir, "Acme.cpp"))
}
