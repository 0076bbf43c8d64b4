package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/packsmith/internal/buildstore"
	"git.home.luguber.info/inful/packsmith/internal/freeze"
	"git.home.luguber.info/inful/packsmith/internal/manifest"
	"git.home.luguber.info/inful/packsmith/internal/toolchain"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SkipCheck bool   `help:"Skip manifest validation before building"`
	History   string `help:"Build history database path (empty disables history)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	m, err := root.LoadManifest()
	if err != nil {
		return err
	}

	fmt.Println("Starting packsmith build")

	baseDir := root.ManifestDir()
	if !b.SkipCheck {
		if res := manifest.Validate(m, baseDir); !res.OK() {
			for _, p := range res.Problems {
				fmt.Printf("error: %s\n", p)
			}
			return res.Err()
		}
	}

	opts := []freeze.Option{}
	if b.History != "" {
		store, err := buildstore.NewSQLiteStore(b.History)
		if err != nil {
			return fmt.Errorf("open build history: %w", err)
		}
		defer store.Close()
		opts = append(opts, freeze.WithStore(store))
	}

	runner := &toolchain.ExecRunner{Stream: os.Stdout}
	builder := freeze.NewBuilder(runner, baseDir, opts...)

	rec, err := builder.Build(context.Background(), m)
	if err != nil {
		fmt.Println("Build failed")
		return err
	}

	fmt.Printf("Bundle built: %s %s -> %s (build %s)\n",
		rec.AppName, rec.AppVersion, m.Freezer.DistPath, rec.ID)
	return nil
}
