package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/packsmith/internal/docs"
	pserrors "git.home.luguber.info/inful/packsmith/internal/errors"
	"git.home.luguber.info/inful/packsmith/internal/toolchain"
)

// DocsCmd implements the 'docs' command.
type DocsCmd struct {
	Check  bool `help:"Pre-flight check of Markdown sources before building"`
	Verify bool `help:"Verify internal links in the generated site after building"`
}

func (d *DocsCmd) Run(_ *Global, root *CLI) error {
	m, err := root.LoadManifest()
	if err != nil {
		return err
	}

	baseDir := root.ManifestDir()

	if d.Check {
		sourceDir := filepath.Join(baseDir, m.Docs.SourceDir)
		problems, err := docs.CheckMarkdown(sourceDir)
		if err != nil {
			return pserrors.Wrap(err, pserrors.CategoryDocs, pserrors.SeverityFatal,
				"markdown pre-flight check failed")
		}
		for _, p := range problems {
			fmt.Printf("warning: %s\n", p)
		}
		if len(problems) > 0 {
			fmt.Printf("%d problem(s) in documentation sources\n", len(problems))
		}
	}

	runner := &toolchain.ExecRunner{Stream: os.Stdout}
	pipeline := docs.NewPipeline(runner, baseDir)

	if err := pipeline.Run(context.Background(), m.Docs); err != nil {
		fmt.Println("Documentation build failed")
		return err
	}

	if d.Verify {
		siteDir := filepath.Join(baseDir, m.Docs.OutputDir)
		problems, err := docs.VerifySite(siteDir, m.Docs.BaseURL)
		if err != nil {
			return pserrors.Wrap(err, pserrors.CategoryDocs, pserrors.SeverityFatal,
				"site link verification failed")
		}
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Printf("error: %s\n", p)
			}
			return pserrors.New(pserrors.CategoryDocs, pserrors.SeverityFatal,
				fmt.Sprintf("generated site has %d broken internal link(s)", len(problems)))
		}
		fmt.Println("Site links verified")
	}

	fmt.Println("Documentation built successfully")
	return nil
}
