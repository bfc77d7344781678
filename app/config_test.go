package app

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/swap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	home, cleanup := tempDir(t)
	defer cleanup()

	conf, err := LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, home, conf.Home)
	assert.Equal(t, "tcp://localhost:26658", conf.Bind)
	assert.Equal(t, "info", conf.LogLevel)
	assert.False(t, conf.Debug)
	assert.Equal(t, filepath.Join(home, "swap.db"), conf.DataDir())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	home, cleanup := tempDir(t)
	defer cleanup()

	file := []byte(`
bind = "tcp://0.0.0.0:46658"
log_level = "debug"
db_path = "/var/lib/swap"
`)
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, "config.toml"), file, 0600))

	os.Setenv("SWAP_DEBUG", "true")
	defer os.Unsetenv("SWAP_DEBUG")
	os.Setenv("SWAP_LOG_LEVEL", "error")
	defer os.Unsetenv("SWAP_LOG_LEVEL")

	conf, err := LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "tcp://0.0.0.0:46658", conf.Bind)
	assert.Equal(t, "error", conf.LogLevel)
	assert.True(t, conf.Debug)
	assert.Equal(t, "/var/lib/swap", conf.DataDir())
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]struct {
		conf    Config
		wantErr *errors.Error
	}{
		"valid": {
			conf: Config{Bind: "tcp://localhost:26658", LogLevel: "none"},
		},
		"missing bind": {
			conf:    Config{LogLevel: "info"},
			wantErr: errors.ErrEmpty,
		},
		"unknown log level": {
			conf:    Config{Bind: "tcp://localhost:26658", LogLevel: "verbose"},
			wantErr: errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.conf.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
		})
	}
}

func TestInMemoryDataDir(t *testing.T) {
	conf := Config{Home: "/home/swap"}
	assert.Equal(t, "", conf.DataDir())
}

func TestNewLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	conf := Config{LogLevel: "error"}
	logger, err := conf.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("offer made")
	assert.Equal(t, 0, buf.Len())

	logger.Error("offer failed", "offer", "abc")
	assert.True(t, strings.Contains(buf.String(), "offer failed"))
}
