package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"regexp"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Config struct {
	Host        string        `env:"QB_HOST" envDefault:"0.0.0.0"`
	Port        uint          `env:"QB_PORT" envDefault:"80"`
	Addr        string        `env:"-"`
	DBUrl       string        `env:"QB_DB_URL" envDefault:"qbrief.sqlite"`
	TokenSecret string        `env:"QB_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"QB_TOKEN_TTL" envDefault:"2m"`
	RefreshTTL  time.Duration `env:"QB_REFRESH_TTL" envDefault:"8760h"`
	PublicDir   string        `env:"QB_PUBLIC_DIR" envDefault:"public"`
	PrivateDir  string        `env:"QB_PRIVATE_DIR" envDefault:"private"`
	Debug       bool          `env:"QB_DEBUG"`
}

// BindFlags registers the command line overrides on flags.
// Defaults are left empty: unset flags never shadow the environment.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("host", "", "listen host name (default 0.0.0.0)")
	flags.Uint("port", 0, "listen port number (default 80)")
	flags.String("db-url", "", "path to SQLite3 DB file (default qbrief.sqlite)")
	flags.String("token-secret", "", "secret key for token encryption and decryption")
	flags.Duration("token-ttl", 0, "access token TTL (default 2m)")
	flags.Duration("refresh-ttl", 0, "refresh token TTL (default 8760h)")
	flags.String("public-dir", "", "directory of the public web bundle")
	flags.String("private-dir", "", "directory of the admin web bundle")
	flags.Bool("debug", false, "log at DEBUG level")
}

// Load reads .env (if present), then the environment, then any flag that was set explicitly.
func Load(flags *pflag.FlagSet) (cfg Config, err error) {
	err = godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err = env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if flags != nil {
		if err = applyFlags(&cfg, flags); err != nil {
			return cfg, err
		}
	}

	cfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port)))
	return cfg, nil
}

func applyFlags(cfg *Config, flags *pflag.FlagSet) (err error) {
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}
	set("host", func() (e error) { cfg.Host, e = flags.GetString("host"); return })
	set("port", func() (e error) { cfg.Port, e = flags.GetUint("port"); return })
	set("db-url", func() (e error) { cfg.DBUrl, e = flags.GetString("db-url"); return })
	set("token-secret", func() (e error) { cfg.TokenSecret, e = flags.GetString("token-secret"); return })
	set("token-ttl", func() (e error) { cfg.TokenTTL, e = flags.GetDuration("token-ttl"); return })
	set("refresh-ttl", func() (e error) { cfg.RefreshTTL, e = flags.GetDuration("refresh-ttl"); return })
	set("public-dir", func() (e error) { cfg.PublicDir, e = flags.GetString("public-dir"); return })
	set("private-dir", func() (e error) { cfg.PrivateDir, e = flags.GetString("private-dir"); return })
	set("debug", func() (e error) { cfg.Debug, e = flags.GetBool("debug"); return })
	return
}

// Validate checks the settings the HTTP server cannot start without.
func (cfg Config) Validate() error {
	if cfg.TokenSecret == "" {
		return errors.New("missing parameter -token-secret")
	}
	if cfg.TokenTTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	return nil
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
