// Command devices registers the push token of a user's device.
//
//	devices -user <uuid> -device <id> -token <fcm token>
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/dmitrijs2005/vivarium/internal/flagx"
	"github.com/dmitrijs2005/vivarium/internal/server"
	"github.com/dmitrijs2005/vivarium/internal/server/config"
)

func main() {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	userID := fs.String("user", "", "owner id")
	deviceID := fs.String("device", "", "device id")
	token := fs.String("token", "", "push token")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-user", "-device", "-token"}))

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewStoreApp(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	if err := app.RegisterDevice(ctx, *userID, *deviceID, *token); err != nil {
		app.Close()
		log.Fatal(err)
	}
}
