package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	require.Equal(t, "localhost", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "./files", cfg.Storage.Path)
	require.Equal(t, "./data/user.json", cfg.Users.SnapshotPath)
	require.Equal(t, "file", cfg.Users.Backend)
	require.Equal(t, DefaultQuotaBytes, cfg.Quota.DefaultBytes)
	require.Equal(t, 10*time.Second, cfg.Auth.Timeout)
	require.Equal(t, "localhost:8080", cfg.Addr())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "settings.yml")
	content := `
server:
  port: 9090
auth:
  app_id: "101610632"
  timeout: 3s
quota:
  default_bytes: 1024
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	t.Setenv("AUTH_APP_SECRET", "from-env")

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "101610632", cfg.Auth.AppID)
	require.Equal(t, "from-env", cfg.Auth.AppSecret)
	require.Equal(t, 3*time.Second, cfg.Auth.Timeout)
	require.Equal(t, int64(1024), cfg.Quota.DefaultBytes)
}

func TestBindFlags_OverrideConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, BindFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--port", "7000", "--upload-dir", "/srv/files"}))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	require.Equal(t, 7000, cfg.Server.Port)
	require.Equal(t, "/srv/files", cfg.Storage.Path)
}
