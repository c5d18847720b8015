package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:       "test",
		Port:      "8080",
		DataPath:  "council.db",
		JWTSecret: "0123456789abcdef",
	}
}

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"COUNCIL_CONFIG", "APP_ENV", "PORT", "GIN_MODE", "DATABASE_URL", "DATA_PATH",
		"JWT_SECRET", "ADMIN_NAME", "ADMIN_EMAIL", "ADMIN_PASSWORD", "LOG_DIR", "TOKEN_TTL",
	} {
		t.Setenv(key, "")
	}
}

// chdir moves into dir for the rest of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_ShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = "short"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSecret")
}

func TestValidate_NeedsStorage(t *testing.T) {
	cfg := validConfig()
	cfg.DataPath = ""

	err := Validate(cfg)
	require.Error(t, err)

	cfg.DatabaseURL = "postgres://localhost/council"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_AdminEmailNeedsPassword(t *testing.T) {
	cfg := validConfig()
	cfg.AdminEmail = "admin@example.com"

	assert.Error(t, Validate(cfg))

	cfg.AdminPassword = "secret123"
	assert.NoError(t, Validate(cfg))
}

func TestLoadFromPath(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "council.yaml")
	content := `env: prod
port: "9000"
dataPath: /tmp/council.db
jwtSecret: abcdefghijklmnopqrstuvwxyz
tokenTTL: 2h
adminEmail: admin@example.com
adminPassword: secret123
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/tmp/council.db", cfg.DataPath)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "council.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\njwtSecret: abcdefghijklmnopqrstuvwxyz\n"), 0o644))

	t.Setenv("PORT", "7000")
	t.Setenv("TOKEN_TTL", "30m")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "council.db", cfg.DataPath)
}

func TestLoad_EnvironmentOnly(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "abcdefghijklmnopqrstuvwxyz")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("COUNCIL_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadTTL(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "abcdefghijklmnopqrstuvwxyz")
	t.Setenv("TOKEN_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
