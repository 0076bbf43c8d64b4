// Package manifest defines the declarative packaging manifest consumed by
// packsmith. The manifest describes everything the external freezer needs to
// turn the application into a standalone bundle, plus the documentation
// toolchain and the daemon settings.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"
)

// Manifest is the root of packsmith.yaml.
type Manifest struct {
	App     AppConfig     `yaml:"app"`
	Entry   string        `yaml:"entry"`
	Data    []DataPair    `yaml:"data,omitempty"`
	Hidden  []string      `yaml:"hidden_imports,omitempty"`
	Exclude []string      `yaml:"excludes,omitempty"`
	Freezer FreezerConfig `yaml:"freezer"`
	Docs    DocsConfig    `yaml:"docs"`
	Daemon  *DaemonConfig `yaml:"daemon,omitempty"`
}

// AppConfig carries the bundle metadata embedded into the frozen executable.
type AppConfig struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name,omitempty"`
	Version     string `yaml:"version,omitempty"`
	Publisher   string `yaml:"publisher,omitempty"`
	Icon        string `yaml:"icon,omitempty"`
	Console     bool   `yaml:"console,omitempty"` // default windowed
}

// DataPair declares a directory embedded into the bundle.
// Src is resolved relative to the manifest; Dest is the path inside the bundle.
type DataPair struct {
	Src  string `yaml:"src"`
	Dest string `yaml:"dest"`
}

// FreezerConfig configures the external application freezer.
type FreezerConfig struct {
	Tool      string   `yaml:"tool,omitempty"`       // binary name, default "pyinstaller"
	DistPath  string   `yaml:"dist_path,omitempty"`  // output directory, default "dist"
	WorkPath  string   `yaml:"work_path,omitempty"`  // scratch directory, default "build"
	ExtraArgs []string `yaml:"extra_args,omitempty"` // passed through verbatim
}

// DocsConfig configures the documentation toolchain.
type DocsConfig struct {
	Runtime   string   `yaml:"runtime,omitempty"`   // required interpreter, default "python3"
	Runner    string   `yaml:"runner,omitempty"`    // command-runner, default "uvx"
	Generator string   `yaml:"generator,omitempty"` // docs tool, default "mkdocs"
	Args      []string `yaml:"args,omitempty"`      // generator arguments, default ["build"]
	SourceDir string   `yaml:"source_dir,omitempty"`
	OutputDir string   `yaml:"output_dir,omitempty"`
	BaseURL   string   `yaml:"base_url,omitempty"` // used by link verification
}

// DaemonConfig configures continuous mode. Durations are Go duration strings
// ("2s", "15m") parsed after load.
type DaemonConfig struct {
	WatchPaths []string `yaml:"watch_paths,omitempty"`
	Debounce   string   `yaml:"debounce,omitempty"`
	Interval   string   `yaml:"interval,omitempty"` // periodic rebuild, empty disables
	Listen     string   `yaml:"listen,omitempty"`   // status/metrics address
	HistoryDB  string   `yaml:"history_db,omitempty"`
	NATSURL    string   `yaml:"nats_url,omitempty"`
	Subject    string   `yaml:"subject,omitempty"`
}

// DebounceDuration returns the parsed debounce interval, or the given fallback
// when unset or unparsable.
func (d *DaemonConfig) DebounceDuration(fallback time.Duration) time.Duration {
	if d == nil || d.Debounce == "" {
		return fallback
	}
	dur, err := time.ParseDuration(d.Debounce)
	if err != nil || dur <= 0 {
		return fallback
	}
	return dur
}

// IntervalDuration returns the parsed periodic rebuild interval; zero means
// periodic rebuilds are disabled.
func (d *DaemonConfig) IntervalDuration() time.Duration {
	if d == nil || d.Interval == "" {
		return 0
	}
	dur, err := time.ParseDuration(d.Interval)
	if err != nil || dur <= 0 {
		return 0
	}
	return dur
}

// Hash computes a deterministic hash over the manifest fields that affect the
// produced bundle. Two manifests with equal hashes would drive the freezer
// identically.
func (m *Manifest) Hash() (string, error) {
	hashInput := struct {
		App     AppConfig     `json:"app"`
		Entry   string        `json:"entry"`
		Data    []DataPair    `json:"data"`
		Hidden  []string      `json:"hidden_imports"`
		Exclude []string      `json:"excludes"`
		Freezer FreezerConfig `json:"freezer"`
	}{
		App:     m.App,
		Entry:   m.Entry,
		Data:    m.Data,
		Hidden:  m.Hidden,
		Exclude: m.Exclude,
		Freezer: m.Freezer,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}
