package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/bagdasarian/org-service/cmd/app/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Version kong.VersionFlag
		Serve   commands.ServeCmd   `cmd:"" default:"1" help:"Start the HTTP API with the notification dispatcher."`
		Worker  commands.WorkerCmd  `cmd:"" help:"Periodically delete expired ownership transfers."`
		Sweep   commands.SweepCmd   `cmd:"" help:"Delete expired ownership transfers once and exit."`
		Migrate commands.MigrateCmd `cmd:"" help:"Apply database migrations."`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("org-service"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Version: version})
	cmd.FatalIfErrorf(err)
}
