package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	pserrors "git.home.luguber.info/inful/packsmith/internal/errors"
	"git.home.luguber.info/inful/packsmith/internal/slug"
)

// Load reads and parses the manifest from the given path, loading a sibling
// .env file first and expanding ${VAR} references in the manifest content.
// Defaults are applied after parsing; validation is a separate step.
func Load(path string) (*Manifest, error) {
	loadEnvFiles(filepath.Dir(path))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, pserrors.New(pserrors.CategoryConfig, pserrors.SeverityFatal,
			fmt.Sprintf("manifest not found: %s", path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pserrors.Wrap(err, pserrors.CategoryConfig, pserrors.SeverityFatal,
			"failed to read manifest")
	}

	expanded := os.ExpandEnv(string(data))

	var m Manifest
	if err := yaml.Unmarshal([]byte(expanded), &m); err != nil {
		return nil, pserrors.Wrap(err, pserrors.CategoryConfig, pserrors.SeverityFatal,
			"failed to parse manifest")
	}

	applyDefaults(&m)
	return &m, nil
}

// loadEnvFiles loads .env then .env.local without overriding the process
// environment. Missing files are not an error.
func loadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Note: could not load %s: %v\n", path, err)
		}
	}
}

// applyDefaults fills in the conventional tool names and directories.
func applyDefaults(m *Manifest) {
	if m.App.Name == "" && m.App.DisplayName != "" {
		m.App.Name = slug.Make(m.App.DisplayName)
	}

	if m.Freezer.Tool == "" {
		m.Freezer.Tool = "pyinstaller"
	}
	if m.Freezer.DistPath == "" {
		m.Freezer.DistPath = "dist"
	}
	if m.Freezer.WorkPath == "" {
		m.Freezer.WorkPath = "build"
	}

	if m.Docs.Runtime == "" {
		m.Docs.Runtime = "python3"
	}
	if m.Docs.Runner == "" {
		m.Docs.Runner = "uvx"
	}
	if m.Docs.Generator == "" {
		m.Docs.Generator = "mkdocs"
	}
	if len(m.Docs.Args) == 0 {
		m.Docs.Args = []string{"build"}
	}
	if m.Docs.SourceDir == "" {
		m.Docs.SourceDir = "docs"
	}
	if m.Docs.OutputDir == "" {
		m.Docs.OutputDir = "site"
	}

	for i := range m.Data {
		if m.Data[i].Dest == "" {
			m.Data[i].Dest = filepath.Base(m.Data[i].Src)
		}
	}

	if m.Daemon != nil {
		if m.Daemon.Listen == "" {
			m.Daemon.Listen = "127.0.0.1:8347"
		}
		if m.Daemon.HistoryDB == "" {
			m.Daemon.HistoryDB = "packsmith-history.db"
		}
		if m.Daemon.Subject == "" {
			m.Daemon.Subject = "packsmith.builds"
		}
		if len(m.Daemon.WatchPaths) == 0 {
			paths := []string{m.Entry}
			for _, d := range m.Data {
				paths = append(paths, d.Src)
			}
			m.Daemon.WatchPaths = paths
		}
	}
}
