package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CLIENT_ID", "env-client")
	t.Setenv("TENANT_ID", "env-tenant")
	t.Setenv("CLIENT_SECRET", "env-secret")
	// Clear optional overrides so defaults are observable.
	for _, key := range []string{"MAILBOX", "GRAPH_SCOPE", "LISTEN_ADDR", "LOG_LEVEL", "AUDIT_DB", "GRAPH_BASE_URL", "TOKEN_URL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_EnvironmentOnly(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "env-client", cfg.ClientID)
	assert.Equal(t, "env-tenant", cfg.TenantID)
	assert.Equal(t, "env-secret", cfg.ClientSecret)
	assert.Equal(t, "me", cfg.Mailbox)
	assert.Equal(t, "https://graph.microsoft.com/.default", cfg.Scope)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingCredentialsListsAll(t *testing.T) {
	t.Setenv("CLIENT_ID", "")
	t.Setenv("TENANT_ID", "")
	t.Setenv("CLIENT_SECRET", "")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLIENT_ID")
	assert.Contains(t, err.Error(), "TENANT_ID")
	assert.Contains(t, err.Error(), "CLIENT_SECRET")
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAILBOX", "override@example.com")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mailbox = "file@example.com"
listen_addr = ":9090"
log_level = "debug"
`), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "override@example.com", cfg.Mailbox, "environment wins over the file")
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_FileSuppliesCredentials(t *testing.T) {
	t.Setenv("CLIENT_ID", "")
	t.Setenv("TENANT_ID", "")
	t.Setenv("CLIENT_SECRET", "")
	t.Setenv("MAILBOX", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
client_id = "file-client"
tenant_id = "file-tenant"
client_secret = "file-secret"
`), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "file-client", cfg.ClientID)
}

func TestLoad_MissingFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestLoad_InvalidTOML(t *testing.T) {
	setRequiredEnv(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`mailbox = [unterminated`), 0o600))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestCredentials(t *testing.T) {
	cfg := Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TenantID:     "tenant",
		Scope:        "scope",
		TokenURL:     "http://localhost/token",
	}

	creds := cfg.Credentials()

	assert.Equal(t, "id", creds.ClientID)
	assert.Equal(t, "secret", creds.ClientSecret)
	assert.Equal(t, "tenant", creds.TenantID)
	assert.Equal(t, "scope", creds.Scope)
	assert.Equal(t, "http://localhost/token", creds.TokenURL)
}
