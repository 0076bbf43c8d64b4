package commands

import (
	"fmt"

	"git.home.luguber.info/inful/packsmith/internal/manifest"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct{}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	m, err := root.LoadManifest()
	if err != nil {
		return err
	}

	res := manifest.Validate(m, root.ManifestDir())
	for _, w := range res.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	if !res.OK() {
		for _, p := range res.Problems {
			fmt.Printf("error: %s\n", p)
		}
		return res.Err()
	}

	fmt.Printf("Manifest OK: %s (entry %s, %d data dirs, %d hidden imports, %d excludes)\n",
		m.App.Name, m.Entry, len(m.Data), len(m.Hidden), len(m.Exclude))
	return nil
}
