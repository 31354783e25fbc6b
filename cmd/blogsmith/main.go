package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogsmith/cmd/blogsmith/commands"
	"git.home.luguber.info/inful/blogsmith/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("blogsmith"),
		kong.Description("Static blog generator: Markdown posts in, published site out."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	ctx.FatalIfErrorf(ctx.Run(&commands.Global{}))
}
