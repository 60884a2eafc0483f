package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFrom(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  url: postgres://localhost/test
jwt:
  secret: s3cret
auth:
  password_min_len: 10
totp:
  issuer: MyApp
cors:
  origin: https://example.com
redis:
  addr: localhost:6379
`)

	cfg := LoadConfigFrom(path)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "postgres://localhost/test", cfg.Database.DSN)
	require.Equal(t, "s3cret", cfg.JWT.Secret)
	require.Equal(t, 10, cfg.Auth.PasswordMinLen)
	require.Equal(t, "MyApp", cfg.TOTP.Issuer)
	require.Equal(t, "https://example.com", cfg.CORS.Origin)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadConfigFrom_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/test
jwt:
  secret: s3cret
`)

	cfg := LoadConfigFrom(path)

	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, 8, cfg.Auth.PasswordMinLen)
	require.Equal(t, "SecureLogin", cfg.TOTP.Issuer)
	require.Equal(t, "http://localhost:3001", cfg.CORS.Origin)
	require.Empty(t, cfg.Redis.Addr)
}

func TestLoadConfigFrom_MissingFile(t *testing.T) {
	require.Panics(t, func() {
		LoadConfigFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}
