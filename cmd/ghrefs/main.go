package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/ghrefs/cmd/ghrefs/commands"
	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
	"git.home.luguber.info/inful/ghrefs/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	global, err := commands.NewGlobal(ctx)
	if err != nil {
		errors.NewCLIErrorAdapter(false, nil).HandleError(err)
	}

	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("ghrefs"),
		kong.Description("Link GitHub issues, commits and mentions in Markdown and render it to HTML."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
		kong.Bind(global),
	)

	if err := parser.Run(); err != nil {
		cancel()
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
