package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
type: postgres
url: postgres://db:5432/orders?sslmode=disable
username: orders
password: secret
read_urls:
  - postgres://replica-1:5432/orders?sslmode=disable
  - postgres://replica-2:5432/orders?sslmode=disable
environment: production
monitor_interval: 30s
connection_details:
  max_open_conns: 20
  max_idle_conns: 5
  conn_max_lifetime: 5m
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "orders", cfg.Username)
	assert.Len(t, cfg.ReadTargets(), 2)
	assert.Equal(t, 30*time.Second, cfg.MonitorInterval)
	assert.Equal(t, ConnectionDetails{MaxOpenConns: 20, MaxIdleConns: 5, ConnMaxLifetime: 5 * time.Minute}, cfg.ConnectionDetails)
}

func TestLocalEnvironmentDisablesReplicas(t *testing.T) {
	cfg := Config{
		Type:        "mysql",
		URL:         "mysql://db:3306/orders",
		ReadURLs:    []string{"mysql://replica:3306/orders"},
		Environment: EnvironmentLocal,
	}
	require.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.ReadTargets())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown type", Config{Type: "oracle", URL: "x"}, "unknown database type"},
		{"empty type", Config{URL: "x"}, "unknown database type"},
		{"missing url", Config{Type: "postgres"}, "URL"},
		{"empty read url", Config{Type: "postgres", URL: "x", ReadURLs: []string{""}}, "ReadURLs"},
		{"negative pool size", Config{Type: "mysql", URL: "x", ConnectionDetails: ConnectionDetails{MaxOpenConns: -1}}, "MaxOpenConns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.ErrorIs(t, Config{Type: "oracle", URL: "x"}.Validate(), ErrUnknownDatabaseType)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "type: [postgres"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "type: sqlserver\nurl: x\n"))
	assert.ErrorIs(t, err, ErrUnknownDatabaseType)
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(Config{Type: "oracle", URL: "x"}, Options{})
	assert.ErrorIs(t, err, ErrUnknownDatabaseType)
}
