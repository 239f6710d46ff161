// Command scheduler performs one reminder scheduling run and exits. It is
// meant to be started periodically by cron or a systemd timer; overlapping
// runs are not supported.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/vivarium/internal/server"
	"github.com/dmitrijs2005/vivarium/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		app.Logger().Error(ctx, "scheduling run failed", "error", err)
		app.Close()
		os.Exit(1)
	}
}
