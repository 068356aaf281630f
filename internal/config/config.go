package config

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Session SessionConfig `mapstructure:"session"`
	Users   UsersConfig   `mapstructure:"users"`
	DB      DBConfig      `mapstructure:"db"`
	Quota   QuotaConfig   `mapstructure:"quota"`
	Admin   AdminConfig   `mapstructure:"admin"`
	PIDFile string        `mapstructure:"pid_file"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	PublicURL      string   `mapstructure:"public_url"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	ServerURL         string        `mapstructure:"server_url"`
	AppID             string        `mapstructure:"app_id"`
	AppSecret         string        `mapstructure:"app_secret"`
	RedirectURI       string        `mapstructure:"redirect_uri"`
	Timeout           time.Duration `mapstructure:"timeout"`
	PostLoginRedirect string        `mapstructure:"post_login_redirect"`
}

type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
}

// UsersConfig selects where the user snapshot lives: "file" or "postgres".
type UsersConfig struct {
	Backend      string `mapstructure:"backend"`
	SnapshotPath string `mapstructure:"snapshot_path"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type QuotaConfig struct {
	DefaultBytes      int64         `mapstructure:"default_bytes"`
	ReconcileOnLogin  bool          `mapstructure:"reconcile_on_login"`
	ReconcileInterval time.Duration `mapstructure:"reconcile_interval"`
}

// AdminConfig guards operational endpoints. Empty Username disables the check.
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

const DefaultQuotaBytes int64 = 500 * 1024 * 1024

func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.max_upload_bytes", int64(1<<30))
	v.SetDefault("storage.path", "./files")
	v.SetDefault("pid_file", "./fs.pid")
	v.SetDefault("auth.server_url", "https://kloping.top")
	v.SetDefault("auth.app_id", "")
	v.SetDefault("auth.app_secret", "")
	v.SetDefault("auth.redirect_uri", "http://localhost:8080/auth/callback")
	v.SetDefault("auth.timeout", 10*time.Second)
	v.SetDefault("auth.post_login_redirect", "/")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookie_name", "fileport_session")
	v.SetDefault("session.secure", false)
	v.SetDefault("users.backend", "file")
	v.SetDefault("users.snapshot_path", "./data/user.json")
	v.SetDefault("db.source", "")
	v.SetDefault("quota.default_bytes", DefaultQuotaBytes)
	v.SetDefault("quota.reconcile_on_login", true)
	v.SetDefault("quota.reconcile_interval", time.Duration(0))
	// every key needs a default so AutomaticEnv reaches Unmarshal
	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password_hash", "")
}

// BindFlags registers the command-line overrides and binds them to their keys.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String("config", "", "path to a settings file (default ./configs/settings.yml)")
	fs.String("host", "localhost", "host name the server listens on")
	fs.Int("port", 8080, "port the server listens on")
	fs.String("upload-dir", "./files", "root directory for stored files")
	fs.String("auth-server", "", "authorization server base URL")
	fs.String("app-id", "", "application id registered with the authorization server")
	fs.String("app-secret", "", "application secret registered with the authorization server")
	fs.String("redirect-uri", "", "callback URL handed to the authorization server")

	bindings := map[string]string{
		"server.host":       "host",
		"server.port":       "port",
		"storage.path":      "upload-dir",
		"auth.server_url":   "auth-server",
		"auth.app_id":       "app-id",
		"auth.app_secret":   "app-secret",
		"auth.redirect_uri": "redirect-uri",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath("./configs")
		v.AddConfigPath("/configs")
		v.SetConfigName("settings")
		v.SetConfigType("yml")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
