// Package config loads CLI configuration from flags, GITSESSION_*
// environment variables and an optional YAML file, in that order of
// precedence.
package config

import (
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	platformerrors "github.com/jmgilman/gitsession/errors"
	"github.com/jmgilman/gitsession/git"
	"github.com/jmgilman/gitsession/internal/logging"
)

// EnvPrefix is prepended to every environment variable, so the key
// log.level is read from GITSESSION_LOG_LEVEL.
const EnvPrefix = "GITSESSION"

// Keys.
const (
	KeyConfig     = "config"
	KeyRoot       = "root"
	KeyURL        = "url"
	KeyUsername   = "username"
	KeyPassword   = "password"
	KeyEmail      = "email"
	KeyTimeout    = "timeout"
	KeyLockFile   = "lock_file"
	KeyHelper     = "helper"
	KeyNoHelper   = "no_helper"
	KeyJSON       = "json"
	KeyLogLevel   = "log.level"
	KeyLogFile    = "log.file"
	KeyLogMaxSize = "log.max_size"
	KeyLogBackups = "log.max_backups"
	KeyLogMaxAge  = "log.max_age"
)

// Config is the resolved CLI configuration.
type Config struct {
	Root     string        `mapstructure:"root"`
	URL      string        `mapstructure:"url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Email    string        `mapstructure:"email"`
	Timeout  time.Duration `mapstructure:"timeout"`
	LockFile string        `mapstructure:"lock_file"`

	// Helper is the credential helper command line, such as
	// "cache --timeout=3600".
	Helper   string `mapstructure:"helper"`
	NoHelper bool   `mapstructure:"no_helper"`

	// JSON selects JSON output for results, errors and console logs.
	JSON bool `mapstructure:"json"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyTimeout, git.DefaultCommandTimeout)
	v.SetDefault(KeyHelper, shellquote.Join(append([]string{git.DefaultCredentialHelper}, git.DefaultCredentialHelperOptions...)...))
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogMaxSize, logging.DefaultMaxSize)
	v.SetDefault(KeyLogBackups, logging.DefaultMaxBackups)
	v.SetDefault(KeyLogMaxAge, logging.DefaultMaxAge)

	// AutomaticEnv only answers keys viper already knows about.
	for _, key := range []string{KeyConfig, KeyRoot, KeyURL, KeyUsername, KeyPassword, KeyEmail, KeyLockFile, KeyNoHelper, KeyJSON, KeyLogFile} {
		_ = v.BindEnv(key)
	}
	return v
}

// AddFlags registers the persistent flags and binds them to v.
func AddFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String("config", "", "path to a YAML config file")
	fs.String("root", "", "working-copy root (default: git rev-parse --show-toplevel)")
	fs.String("url", "", "origin URL (default: remote.origin.url)")
	fs.String("username", "", "username to approve into the credential store (default: user.name)")
	fs.String("password", "", "password or token to approve into the credential store")
	fs.String("email", "", "email to approve into the credential store (default: user.email)")
	fs.Duration("timeout", git.DefaultCommandTimeout, "bound for each git command")
	fs.String("lock-file", "", "serialize credential changes through an exclusive lock on this file")
	fs.String("helper", "", "credential helper command line")
	fs.Bool("no-helper", false, "leave credential.helper untouched")
	fs.Bool("json", false, "emit results and errors as JSON")
	fs.String("log-level", "", "console log level: debug, info, warn or error")
	fs.String("log-file", "", "also write debug logs to this file, rotated by size")

	bindings := map[string]string{
		KeyConfig:   "config",
		KeyRoot:     "root",
		KeyURL:      "url",
		KeyUsername: "username",
		KeyPassword: "password",
		KeyEmail:    "email",
		KeyTimeout:  "timeout",
		KeyLockFile: "lock-file",
		KeyHelper:   "helper",
		KeyNoHelper: "no-helper",
		KeyJSON:     "json",
		KeyLogLevel: "log-level",
		KeyLogFile:  "log-file",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return platformerrors.Wrapf(err, platformerrors.CodeInternal, "failed to bind flag --%s", flag)
		}
	}
	return nil
}

// Load reads the config file named by the config key, if any, and decodes
// the merged settings.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, platformerrors.WrapWithContext(err, platformerrors.CodeInvalidConfig,
				"failed to read config file", map[string]interface{}{"path": path})
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return platformerrors.Newf(platformerrors.CodeInvalidConfig, "timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := c.HelperArgs(); err != nil {
		return err
	}
	return nil
}

// Session returns the identity fields as a git.Config.
func (c *Config) Session() git.Config {
	return git.Config{
		Root:     c.Root,
		URL:      c.URL,
		Username: c.Username,
		Password: c.Password,
		Email:    c.Email,
	}
}

// Options translates the settings into session options.
func (c *Config) Options() ([]git.Option, error) {
	opts := []git.Option{git.WithTimeout(c.Timeout)}

	if c.Root != "" {
		opts = append(opts, git.WithWorkDir(c.Root))
	}
	if c.LockFile != "" {
		opts = append(opts, git.WithLockFile(c.LockFile))
	}

	if c.NoHelper {
		opts = append(opts, git.WithoutCredentialHelper())
		return opts, nil
	}

	args, err := c.HelperArgs()
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		opts = append(opts, git.WithCredentialHelper(args[0], args[1:]...))
	}
	return opts, nil
}

// Logging returns the logger options.
func (c *Config) Logging() logging.Options {
	return logging.Options{
		Level:      c.Log.Level,
		JSON:       c.JSON,
		File:       c.Log.File,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
	}
}

// HelperArgs splits Helper into the helper name and its arguments.
func (c *Config) HelperArgs() ([]string, error) {
	args, err := shellquote.Split(c.Helper)
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidConfig, "invalid credential helper %q", c.Helper)
	}
	return args, nil
}
