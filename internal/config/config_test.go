package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: 127.0.0.1
  port: 8080
  read_timeout: 5
database:
  host: localhost
  port: 5433
  user: testuser
  password: testpass
  dbname: pixelpi_test
  sslmode: require
pinata:
  jwt: "test-jwt"
  gateway: "https://my-gateway.example.com"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 5, cfg.Server.ReadTimeout)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "pixelpi_test", cfg.Database.DBName)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "test-jwt", cfg.Pinata.JWT)
				assert.True(t, cfg.Pinata.Configured())
				assert.Equal(t, "https://my-gateway.example.com", cfg.Pinata.Gateway)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: pixelpi
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				// Check defaults
				assert.False(t, cfg.Debug)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 3000, cfg.Server.Port)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, "https://api.pinata.cloud", cfg.Pinata.APIURL)
				assert.Equal(t, "https://gateway.pinata.cloud", cfg.Pinata.Gateway)
				assert.Equal(t, "30s", cfg.Pinata.Timeout.String())
				assert.False(t, cfg.Pinata.Configured())
			},
		},
		{
			name:        "missing config file",
			configFile:  "",
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.Equal(t, 3000, cfg.Server.Port)
			},
		},
		{
			name: "invalid yaml",
			configFile: `
server:
  port: not-a-number
`,
			expectError: true,
			validate:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			var configFile string

			if tt.configFile != "" {
				configFile = filepath.Join(tmpDir, "config.yaml")
				err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
				require.NoError(t, err)
			}

			cfg, err := LoadAPIConfig(configFile, tmpDir)
			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "pixelpi",
		Password: "secret",
		DBName:   "marketplace",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=pixelpi password=secret dbname=marketplace sslmode=disable",
		cfg.DSN())
}

func TestLoadAPIConfig_EnvOverride(t *testing.T) {
	t.Setenv("PIXELPI_SERVER_PORT", "9999")
	t.Setenv("PIXELPI_PINATA_JWT", "env-jwt")

	cfg, err := LoadAPIConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "env-jwt", cfg.Pinata.JWT)
	assert.True(t, cfg.Pinata.Configured())
}
