package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/packsmith/internal/manifest"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to the root manifest path.
type CLI struct {
	Manifest string           `short:"m" help:"Packaging manifest path" default:"packsmith.yaml"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init    InitCmd    `cmd:"" help:"Initialize a new packaging manifest"`
	Check   CheckCmd   `cmd:"" help:"Validate the packaging manifest against the project tree"`
	Build   BuildCmd   `cmd:"" help:"Freeze the application into a standalone bundle"`
	Docs    DocsCmd    `cmd:"" help:"Build documentation through the configured generator"`
	Doctor  DoctorCmd  `cmd:"" help:"Check that all required external tools are installed"`
	History HistoryCmd `cmd:"" help:"Show recent build history"`
	Daemon  DaemonCmd  `cmd:"" help:"Watch the project and rebuild continuously"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ManifestDir returns the directory containing the manifest; manifest paths
// resolve against it.
func (c *CLI) ManifestDir() string {
	dir := filepath.Dir(c.Manifest)
	if dir == "" {
		return "."
	}
	return dir
}

// LoadManifest loads and defaults the manifest from the root flag.
func (c *CLI) LoadManifest() (*manifest.Manifest, error) {
	return manifest.Load(c.Manifest)
}
