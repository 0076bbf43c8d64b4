package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySiteClean(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"),
		`<html><body><a href="usage/">Usage</a><img src="img/logo.png"></body></html>`)
	writeFile(t, filepath.Join(dir, "usage", "index.html"),
		`<html><body><a href="../index.html">Home</a></body></html>`)
	writeFile(t, filepath.Join(dir, "img", "logo.png"), "png")

	problems, err := VerifySite(dir, "")
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestVerifySiteBrokenLink(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"),
		`<html><body><a href="missing.html">Gone</a></body></html>`)

	problems, err := VerifySite(dir, "")
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "index.html", problems[0].File)
	assert.Contains(t, problems[0].Message, "missing.html")
}

func TestVerifySiteIgnoresExternal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"),
		`<html><head><script src="https://cdn.example.com/x.js"></script></head>`+
			`<body><a href="mailto:a@b.c">mail</a><a href="#top">top</a></body></html>`)

	problems, err := VerifySite(dir, "")
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestVerifySiteQueryAndFragmentStripped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"),
		`<html><body><a href="usage.html?v=2#install">Usage</a></body></html>`)
	writeFile(t, filepath.Join(dir, "usage.html"), `<html></html>`)

	problems, err := VerifySite(dir, "")
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestVerifySiteBaseURLResolvesAbsoluteLinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"),
		`<html><body><a href="https://docs.example.com/guide/usage.html">Usage</a>`+
			`<a href="/guide/missing.html">Gone</a></body></html>`)
	writeFile(t, filepath.Join(dir, "guide", "usage.html"), `<html></html>`)

	problems, err := VerifySite(dir, "https://docs.example.com")
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Message, "/guide/missing.html")
}

func TestVerifySiteBaseURLWithPathPrefix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"),
		`<html><body><a href="/docs/usage.html">Usage</a></body></html>`)
	writeFile(t, filepath.Join(dir, "usage.html"), `<html></html>`)

	problems, err := VerifySite(dir, "https://example.com/docs/")
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestVerifySiteNoBaseURLSkipsAbsolute(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"),
		`<html><body><a href="/not-checked.html">Root</a></body></html>`)

	problems, err := VerifySite(dir, "")
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestVerifySiteDirectoryWithoutIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"),
		`<html><body><a href="empty/">Empty</a></body></html>`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))

	problems, err := VerifySite(dir, "")
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Message, "empty/")
}
