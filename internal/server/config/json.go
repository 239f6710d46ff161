package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vivarium/internal/flagx"
	"github.com/dmitrijs2005/vivarium/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// Only keys present in the file override the current Config, so a file may
// carry a subset of the settings.
type JsonConfig struct {
	DatabaseDSN             *string         `json:"database_dsn"`
	PageSize                *int            `json:"page_size"`
	DispatchConcurrency     *int            `json:"dispatch_concurrency"`
	PushRateLimit           *float64        `json:"push_rate_limit"`
	PushProvider            *string         `json:"push_provider"`
	FirebaseCredentialsFile *string         `json:"firebase_credentials_file"`
	IconSource              *string         `json:"icon_source"`
	IconURLTemplate         *string         `json:"icon_url_template"`
	IconURLExpiry           *timex.Duration `json:"icon_url_expiry"`
	S3RootUser              *string         `json:"s3_root_user"`
	S3RootPassword          *string         `json:"s3_root_password"`
	S3Bucket                *string         `json:"s3_bucket"`
	S3Region                *string         `json:"s3_region"`
	S3BaseEndpoint          *string         `json:"s3_base_endpoint"`
	LogLevel                *string         `json:"log_level"`
	RunMigrations           *bool           `json:"run_migrations"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flag. Without the flag nothing is loaded. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.PageSize, c.PageSize)
	set(&config.DispatchConcurrency, c.DispatchConcurrency)
	set(&config.PushRateLimit, c.PushRateLimit)
	set(&config.PushProvider, c.PushProvider)
	set(&config.FirebaseCredentialsFile, c.FirebaseCredentialsFile)
	set(&config.IconSource, c.IconSource)
	set(&config.IconURLTemplate, c.IconURLTemplate)
	if c.IconURLExpiry != nil {
		config.IconURLExpiry = c.IconURLExpiry.Duration
	}
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.LogLevel, c.LogLevel)
	set(&config.RunMigrations, c.RunMigrations)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
