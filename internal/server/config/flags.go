package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/vivarium/internal/flagx"
)

// serverFlags lists the flags handled by parseFlags.
var serverFlags = []string{
	"-d", "-n", "-w", "-r", "-push", "-fcm-credentials", "-icons", "-icon-template", "-icon-expiry",
	"-u", "-p", "-b", "-g", "-e", "-log-level", "-m",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-d string           PostgreSQL DSN
//	-n int              scan page size
//	-w int              reminders dispatched in parallel per page
//	-r float            push rate limit per second (0 = unlimited)
//	-push string        push provider: log or fcm
//	-fcm-credentials    Firebase service account file
//	-icons string       icon source: none, path or s3
//	-icon-template      icon URL template with {id}
//	-icon-expiry        presigned icon URL lifetime (e.g. "24h")
//	-u string           S3 root user
//	-p string           S3 root password
//	-b string           S3 bucket name
//	-g string           S3 region
//	-e string           S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-log-level string   debug, info, warn or error
//	-m                  run migrations before the run (use -m=false to disable)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, so binaries can define flags of their own.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.PageSize, "n", config.PageSize, "scan page size")
	fs.IntVar(&config.DispatchConcurrency, "w", config.DispatchConcurrency, "reminders dispatched in parallel")
	fs.Float64Var(&config.PushRateLimit, "r", config.PushRateLimit, "push rate limit per second")
	fs.StringVar(&config.PushProvider, "push", config.PushProvider, "push provider (log|fcm)")
	fs.StringVar(&config.FirebaseCredentialsFile, "fcm-credentials", config.FirebaseCredentialsFile, "Firebase service account file")
	fs.StringVar(&config.IconSource, "icons", config.IconSource, "icon source (none|path|s3)")
	fs.StringVar(&config.IconURLTemplate, "icon-template", config.IconURLTemplate, "icon URL template")
	fs.DurationVar(&config.IconURLExpiry, "icon-expiry", config.IconURLExpiry, "presigned icon URL lifetime")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.BoolVar(&config.RunMigrations, "m", config.RunMigrations, "run migrations")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
