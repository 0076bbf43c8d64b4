package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/packsmith/internal/manifest"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing manifest file"`
	Output string `short:"o" name:"output" help:"Output directory for the generated manifest"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path := root.Manifest
	if i.Output != "" {
		path = filepath.Join(i.Output, "packsmith.yaml")
	}

	fmt.Println("Initializing packsmith project")
	fmt.Printf("Writing manifest to %s\n", path)
	if err := manifest.Init(path, i.Force); err != nil {
		fmt.Println("Initialization failed")
		return err
	}
	fmt.Println("initialized successfully")
	return nil
}
