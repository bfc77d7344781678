package app

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/iov-one/swap/errors"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

// EnvPrefix is prepended to every configuration key when it is read
// from the environment, for example SWAP_BIND.
const EnvPrefix = "SWAP"

// Config holds everything needed to run the node process.
type Config struct {
	// Home is the directory holding the database and the config file.
	Home string `mapstructure:"home"`
	// Bind is the address the ABCI socket server listens on.
	Bind string `mapstructure:"bind"`
	// DBPath is where the ledger is stored. Relative paths are
	// resolved against Home. An empty value keeps the state in memory.
	DBPath string `mapstructure:"db_path"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `mapstructure:"log_level"`
	// Debug exposes full error details in ABCI responses.
	Debug bool `mapstructure:"debug"`
}

var configDefaults = map[string]interface{}{
	"home":      ".swap",
	"bind":      "tcp://localhost:26658",
	"db_path":   "swap.db",
	"log_level": "info",
	"debug":     false,
}

// LoadConfig reads the configuration from an optional config.toml in
// the home directory, with environment variables taking precedence
// over the file and defaults filling in anything unset.
func LoadConfig(home string) (*Config, error) {
	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	if home != "" {
		v.SetDefault("home", home)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(v.GetString("home"))
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "read config: %s", err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "decode config: %s", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks that the configuration can be used to start a node.
func (c Config) Validate() error {
	if c.Bind == "" {
		return errors.Wrap(errors.ErrEmpty, "bind")
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "log level: %s", err)
	}
	return nil
}

// DataDir returns the database location, or an empty string when the
// state should only be kept in memory.
func (c Config) DataDir() string {
	if c.DBPath == "" || filepath.IsAbs(c.DBPath) {
		return c.DBPath
	}
	return filepath.Join(c.Home, c.DBPath)
}

// NewLogger returns a tendermint logger writing to w, filtered to the
// configured level.
func (c Config) NewLogger(w io.Writer) (log.Logger, error) {
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "log level: %s", err)
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	return log.NewFilter(logger, opt), nil
}
