package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "packsmith.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
app:
  name: demo-app
entry: main.py
`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pyinstaller", m.Freezer.Tool)
	assert.Equal(t, "dist", m.Freezer.DistPath)
	assert.Equal(t, "build", m.Freezer.WorkPath)
	assert.Equal(t, "python3", m.Docs.Runtime)
	assert.Equal(t, "uvx", m.Docs.Runner)
	assert.Equal(t, "mkdocs", m.Docs.Generator)
	assert.Equal(t, []string{"build"}, m.Docs.Args)
	assert.Equal(t, "docs", m.Docs.SourceDir)
	assert.Equal(t, "site", m.Docs.OutputDir)
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest not found")
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("PACKSMITH_TEST_VERSION", "9.9.9")
	dir := t.TempDir()
	path := writeManifest(t, dir, `
app:
  name: demo-app
  version: ${PACKSMITH_TEST_VERSION}
entry: main.py
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9.9.9", m.App.Version)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PACKSMITH_PUBLISHER=Acme\n"), 0o644))
	path := writeManifest(t, dir, `
app:
  name: demo-app
  publisher: ${PACKSMITH_PUBLISHER}
entry: main.py
`)
	t.Cleanup(func() { os.Unsetenv("PACKSMITH_PUBLISHER") })

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme", m.App.Publisher)
}

func TestLoadDataDestDefaultsToBase(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
app:
  name: demo-app
entry: main.py
data:
  - src: assets/images
`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Data, 1)
	assert.Equal(t, "images", m.Data[0].Dest)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "app: [not: valid\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadDerivesNameFromDisplayName(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
app:
  display_name: Test Prosedürü Uygulaması
entry: main.py
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-proseduru-uygulamasi", m.App.Name)
}

func TestHashDeterministic(t *testing.T) {
	m := &Manifest{
		App:    AppConfig{Name: "demo", Version: "1.0.0"},
		Entry:  "main.py",
		Hidden: []string{"openpyxl"},
	}
	h1, err := m.Hash()
	require.NoError(t, err)
	h2, err := m.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	m.Hidden = append(m.Hidden, "PyQt5.sip")
	h3, err := m.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestDaemonDurations(t *testing.T) {
	d := &DaemonConfig{Debounce: "3s", Interval: "15m"}
	assert.Equal(t, "3s", d.Debounce)
	assert.Equal(t, 3.0, d.DebounceDuration(0).Seconds())
	assert.Equal(t, 15.0, d.IntervalDuration().Minutes())

	var nilCfg *DaemonConfig
	assert.Equal(t, 2.0, nilCfg.DebounceDuration(2e9).Seconds())
	assert.Zero(t, nilCfg.IntervalDuration())

	bad := &DaemonConfig{Debounce: "soon", Interval: "-1s"}
	assert.Equal(t, 2.0, bad.DebounceDuration(2e9).Seconds())
	assert.Zero(t, bad.IntervalDuration())
}
