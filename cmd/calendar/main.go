// Command calendar prints the occurrences of a user's active reminders within
// a date window as JSON.
//
//	calendar -user <uuid> -from 2024-01-01 -to 2024-01-31 [-reminder <uuid>]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/dmitrijs2005/vivarium/internal/client/calendar"
	"github.com/dmitrijs2005/vivarium/internal/flagx"
	"github.com/dmitrijs2005/vivarium/internal/server"
	"github.com/dmitrijs2005/vivarium/internal/server/config"
)

func main() {
	fs := flag.NewFlagSet("calendar", flag.ExitOnError)
	userID := fs.String("user", "", "owner id")
	reminderID := fs.String("reminder", "", "expand a single reminder")
	from := fs.String("from", "", "first day, YYYY-MM-DD")
	to := fs.String("to", "", "last day, YYYY-MM-DD")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-user", "-reminder", "-from", "-to"}))

	if *userID == "" && *reminderID == "" {
		log.Fatal("-user or -reminder is required")
	}
	start, end, err := calendar.ParseRange(*from, *to)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	cfg.LogLevel = "error"

	app, err := server.NewStoreApp(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	occurrences, err := app.Occurrences(ctx, *userID, *reminderID, start, end)
	if err != nil {
		app.Close()
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(occurrences); err != nil {
		app.Close()
		log.Fatal(err)
	}
}
