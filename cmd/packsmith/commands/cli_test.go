package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCLI(t *testing.T, dir string) *CLI {
	t.Helper()
	cli := &CLI{Manifest: filepath.Join(dir, "packsmith.yaml")}
	require.NoError(t, cli.AfterApply())
	return cli
}

func TestInitThenCheck(t *testing.T) {
	dir := t.TempDir()
	cli := testCLI(t, dir)

	initCmd := &InitCmd{}
	require.NoError(t, initCmd.Run(&Global{}, cli))
	assert.FileExists(t, cli.Manifest)

	// The scaffolded manifest references files that do not exist yet.
	checkCmd := &CheckCmd{}
	err := checkCmd.Run(&Global{}, cli)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry-point file does not exist")

	// Create the referenced tree; check then passes.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("print('hi')\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "resources"), 0o755))
	require.NoError(t, checkCmd.Run(&Global{}, cli))
}

func TestInitRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	cli := testCLI(t, dir)

	initCmd := &InitCmd{}
	require.NoError(t, initCmd.Run(&Global{}, cli))

	err := initCmd.Run(&Global{}, cli)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	initCmd.Force = true
	require.NoError(t, initCmd.Run(&Global{}, cli))
}

func TestCheckMissingManifest(t *testing.T) {
	cli := testCLI(t, t.TempDir())

	err := (&CheckCmd{}).Run(&Global{}, cli)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest not found")
}

func TestDoctorMissingTools(t *testing.T) {
	dir := t.TempDir()
	cli := testCLI(t, dir)

	manifestYAML := `
app:
  name: demo-app
entry: main.py
freezer:
  tool: definitely-not-a-real-freezer-xyz
docs:
  runtime: definitely-not-a-real-runtime-xyz
  runner: sh
`
	require.NoError(t, os.WriteFile(cli.Manifest, []byte(manifestYAML), 0o644))

	err := (&DoctorCmd{}).Run(&Global{}, cli)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 required tool(s) missing")
}

func TestHistoryEmptyDatabase(t *testing.T) {
	dir := t.TempDir()
	cmd := &HistoryCmd{DB: filepath.Join(dir, "history.db"), Limit: 10}
	require.NoError(t, cmd.Run(&Global{}, &CLI{}))
}
