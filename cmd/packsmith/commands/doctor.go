package commands

import (
	"context"
	"fmt"

	pserrors "git.home.luguber.info/inful/packsmith/internal/errors"
	"git.home.luguber.info/inful/packsmith/internal/toolchain"
)

// DoctorCmd implements the 'doctor' command.
type DoctorCmd struct{}

func (d *DoctorCmd) Run(_ *Global, root *CLI) error {
	m, err := root.LoadManifest()
	if err != nil {
		return err
	}

	tools := []toolchain.Tool{
		{Name: m.Freezer.Tool, Description: "application freezer", VersionArgs: []string{"--version"}},
		{Name: m.Docs.Runtime, Description: "language runtime", VersionArgs: []string{"--version"}},
		{Name: m.Docs.Runner, Description: "command-runner", VersionArgs: []string{"--version"}},
	}

	ctx := context.Background()
	missing := 0
	for _, tool := range tools {
		st := toolchain.Probe(ctx, tool)
		switch {
		case st.Found && st.Version != "":
			fmt.Printf("  ok      %-12s %s (%s)\n", tool.Name, st.Path, st.Version)
		case st.Found:
			fmt.Printf("  ok      %-12s %s\n", tool.Name, st.Path)
		default:
			fmt.Printf("  MISSING %-12s %s\n", tool.Name, tool.Description)
			missing++
		}
	}

	if missing > 0 {
		return pserrors.New(pserrors.CategoryToolchain, pserrors.SeverityFatal,
			fmt.Sprintf("%d required tool(s) missing", missing))
	}
	fmt.Println("All required tools are installed")
	return nil
}
