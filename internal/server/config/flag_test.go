package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-d", "db", "-n", "25", "-w", "4", "-r", "12.5",
			"-push", "fcm", "-fcm-credentials", "sa.json",
			"-icons", "path", "-icon-template", "/icons/{id}", "-icon-expiry", "2h",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			"-log-level", "debug", "-m",
		}, expectPanic: false,
			expected: &Config{
				DatabaseDSN:             "db",
				PageSize:                25,
				DispatchConcurrency:     4,
				PushRateLimit:           12.5,
				PushProvider:            "fcm",
				FirebaseCredentialsFile: "sa.json",
				IconSource:              "path",
				IconURLTemplate:         "/icons/{id}",
				IconURLExpiry:           2 * time.Hour,
				S3RootUser:              "user",
				S3RootPassword:          "password",
				S3Bucket:                "bucket",
				S3Region:                "us-west-1",
				S3BaseEndpoint:          "http://endpoint",
				LogLevel:                "debug",
				RunMigrations:           true,
			}},
		{name: "foreign flags are ignored", args: []string{"cmd", "-user", "u1", "-from", "2024-01-01", "-d", "db"},
			expected: &Config{DatabaseDSN: "db"}},
		{name: "bad int panics", args: []string{"cmd", "-n", "many"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
