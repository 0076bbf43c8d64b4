package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/packsmith/cmd/packsmith/commands"
	pserrors "git.home.luguber.info/inful/packsmith/internal/errors"
	"git.home.luguber.info/inful/packsmith/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("packsmith"),
		kong.Description("Package desktop applications into standalone bundles and automate their documentation builds."),
		kong.Vars{"version": version.Version},
		kong.Bind(&commands.Global{}),
		kong.Bind(cli),
	)

	adapter := pserrors.NewCLIErrorAdapter(cli.Verbose, nil)
	if err := ctx.Run(); err != nil {
		adapter.HandleError(err)
	}
}
