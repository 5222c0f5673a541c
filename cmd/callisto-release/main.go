package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/underrout/callisto-release/cmd/callisto-release/commands"
	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/version"
)

func main() {
	var cli commands.CLI
	kctx := kong.Parse(&cli,
		kong.Name("callisto-release"),
		kong.Description("Build, document and package a Callisto release."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
		kong.Bind(&cli, &commands.Global{Stdout: os.Stdout}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	kctx.BindTo(ctx, (*context.Context)(nil))

	err := kctx.Run()
	stop()
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
