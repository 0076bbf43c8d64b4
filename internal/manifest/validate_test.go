package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("print('hi')\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "resources"), 0o755))
	return dir
}

func validManifest() *Manifest {
	return &Manifest{
		App:   AppConfig{Name: "demo-app"},
		Entry: "main.py",
		Data: []DataPair{
			{Src: "data", Dest: "data"},
			{Src: "resources", Dest: "resources"},
		},
	}
}

func TestValidateAcceptsWellFormedManifest(t *testing.T) {
	dir := projectTree(t)
	res := Validate(validManifest(), dir)
	assert.True(t, res.OK(), "problems: %v", res.Problems)
	assert.NoError(t, res.Err())
}

func TestValidateMissingEntryPoint(t *testing.T) {
	dir := projectTree(t)
	m := validManifest()
	m.Entry = "missing.py"

	res := Validate(m, dir)
	require.False(t, res.OK())
	assert.Contains(t, res.Problems[0], "entry-point file does not exist")
	assert.Error(t, res.Err())
}

func TestValidateMissingDataDirectory(t *testing.T) {
	dir := projectTree(t)
	m := validManifest()
	m.Data = append(m.Data, DataPair{Src: "translations", Dest: "translations"})

	res := Validate(m, dir)
	require.False(t, res.OK())
	assert.Contains(t, res.Problems[0], "data directory does not exist: translations")
}

func TestValidateReportsAllProblems(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{
		Entry: "missing.py",
		Data:  []DataPair{{Src: "data"}, {Src: "resources"}},
	}

	res := Validate(m, dir)
	// empty name + missing entry + two missing data dirs
	assert.Len(t, res.Problems, 4)
}

func TestValidateHiddenExcludeOverlap(t *testing.T) {
	dir := projectTree(t)
	m := validManifest()
	m.Hidden = []string{"openpyxl", "PyQt5.sip"}
	m.Exclude = []string{"tkinter", "openpyxl"}

	res := Validate(m, dir)
	require.False(t, res.OK())
	assert.Contains(t, res.Problems[0], "both hidden import and exclude")
	assert.Contains(t, res.Problems[0], "openpyxl")
}

func TestValidateEntryMustBeFile(t *testing.T) {
	dir := projectTree(t)
	m := validManifest()
	m.Entry = "data"

	res := Validate(m, dir)
	require.False(t, res.OK())
	assert.Contains(t, res.Problems[0], "must be a file")
}

func TestValidateWarnings(t *testing.T) {
	dir := projectTree(t)
	m := validManifest()
	m.App.Icon = "resources/app.ico"
	m.Hidden = []string{"openpyxl", "openpyxl"}

	res := Validate(m, dir)
	assert.True(t, res.OK())
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "icon file not found")
	assert.Contains(t, res.Warnings[1], "duplicate hidden imports")
}
