package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vivarium/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDatabaseDSN             = "VIVARIUM_DATABASE_DSN"
	EnvPageSize                = "VIVARIUM_PAGE_SIZE"
	EnvDispatchConcurrency     = "VIVARIUM_DISPATCH_CONCURRENCY"
	EnvPushRateLimit           = "VIVARIUM_PUSH_RATE_LIMIT"
	EnvPushProvider            = "VIVARIUM_PUSH_PROVIDER"
	EnvFirebaseCredentialsFile = "FIREBASE_CREDENTIALS_FILE"
	EnvIconSource              = "VIVARIUM_ICON_SOURCE"
	EnvIconURLTemplate         = "VIVARIUM_ICON_URL_TEMPLATE"
	EnvIconURLExpiry           = "VIVARIUM_ICON_URL_EXPIRY"
	EnvS3RootUser              = "MINIO_ROOT_USER"
	EnvS3RootPassword          = "MINIO_ROOT_PASSWORD"
	EnvS3Bucket                = "VIVARIUM_S3_BUCKET"
	EnvS3Region                = "VIVARIUM_S3_REGION"
	EnvS3BaseEndpoint          = "VIVARIUM_S3_BASE_ENDPOINT"
	EnvLogLevel                = "VIVARIUM_LOG_LEVEL"
	EnvRunMigrations           = "VIVARIUM_RUN_MIGRATIONS"
)

// parseEnv overlays Config with environment variables. A dotenv file given
// with -env is loaded first; variables already set in the process win over
// the file. Unset or malformed values leave the field unchanged.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	}

	setString(&config.DatabaseDSN, EnvDatabaseDSN)
	setInt(&config.PageSize, EnvPageSize)
	setInt(&config.DispatchConcurrency, EnvDispatchConcurrency)
	if v, ok := lookup(EnvPushRateLimit); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.PushRateLimit = f
		}
	}
	setString(&config.PushProvider, EnvPushProvider)
	setString(&config.FirebaseCredentialsFile, EnvFirebaseCredentialsFile)
	setString(&config.IconSource, EnvIconSource)
	setString(&config.IconURLTemplate, EnvIconURLTemplate)
	if v, ok := lookup(EnvIconURLExpiry); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.IconURLExpiry = d
		}
	}
	setString(&config.S3RootUser, EnvS3RootUser)
	setString(&config.S3RootPassword, EnvS3RootPassword)
	setString(&config.S3Bucket, EnvS3Bucket)
	setString(&config.S3Region, EnvS3Region)
	setString(&config.S3BaseEndpoint, EnvS3BaseEndpoint)
	setString(&config.LogLevel, EnvLogLevel)
	if v, ok := lookup(EnvRunMigrations); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.RunMigrations = b
		}
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := lookup(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
