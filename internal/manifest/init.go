package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init creates a new manifest file with example content.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("manifest already exists: %s (use --force to overwrite)", path)
	}

	example := Manifest{
		App: AppConfig{
			Name:        "test-procedure-app",
			DisplayName: "Test Prosedürü Uygulaması",
			Version:     "1.0.0",
			Publisher:   "Example Manufacturing",
			Icon:        "resources/app.ico",
			Console:     false,
		},
		Entry: "main.py",
		Data: []DataPair{
			{Src: "data", Dest: "data"},
			{Src: "resources", Dest: "resources"},
		},
		Hidden: []string{
			"PyQt5.sip",
			"openpyxl",
		},
		Exclude: []string{
			"tkinter",
			"matplotlib",
			"scipy",
		},
		Freezer: FreezerConfig{
			Tool:     "pyinstaller",
			DistPath: "dist",
		},
		Docs: DocsConfig{
			Runtime:   "python3",
			Runner:    "uvx",
			Generator: "mkdocs",
			Args:      []string{"build"},
			SourceDir: "docs",
			OutputDir: "site",
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("marshal example manifest: %w", err)
	}

	header := "# packsmith packaging manifest\n# Run 'packsmith check' to validate, 'packsmith build' to freeze the bundle.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}
