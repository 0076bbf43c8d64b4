// Package freeze drives the external application freezer: it composes the
// freezer command line from the packaging manifest, executes it, and records
// the outcome.
package freeze

import (
	"fmt"
	"runtime"

	"git.home.luguber.info/inful/packsmith/internal/manifest"
)

// dataSeparator is the src/dest separator the freezer expects in --add-data.
// Windows uses ';' because ':' appears in drive letters.
func dataSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

// ComposeArgs renders the freezer argument list for the given manifest.
// The manifest declares src and dest separately; the platform-specific
// separator is applied here so manifests stay portable.
func ComposeArgs(m *manifest.Manifest) []string {
	args := []string{
		"--noconfirm",
		"--clean",
		"--name", m.App.Name,
		"--distpath", m.Freezer.DistPath,
		"--workpath", m.Freezer.WorkPath,
	}

	if m.App.Console {
		args = append(args, "--console")
	} else {
		args = append(args, "--windowed")
	}

	if m.App.Icon != "" {
		args = append(args, "--icon", m.App.Icon)
	}

	sep := dataSeparator()
	for _, pair := range m.Data {
		args = append(args, "--add-data", fmt.Sprintf("%s%s%s", pair.Src, sep, pair.Dest))
	}

	for _, mod := range m.Hidden {
		args = append(args, "--hidden-import", mod)
	}

	for _, mod := range m.Exclude {
		args = append(args, "--exclude-module", mod)
	}

	args = append(args, m.Freezer.ExtraArgs...)
	args = append(args, m.Entry)
	return args
}
