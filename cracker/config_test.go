package cracker

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// Ensure NewConfig properly parses config files.
func TestNewConfigFromFile(t *testing.T) {
	config, err := NewConfig("configs/full.yaml")
	require.NoError(t, err)

	require.Equal(t, "/tmp/messages.hex", config.InputFile)
	require.Equal(t, uint32(log.DebugLevel), config.LogLevel)
	require.Equal(t, 0.65, config.Threshold)
	require.Equal(t, byte('e'), config.Anchor)
	require.Equal(t, byte('#'), config.Sentinel)
	require.Equal(t, 4, config.Workers)
	require.True(t, config.Stats)
	require.Equal(t, "json", config.StatsFormat)
	require.Equal(t, "/tmp/key.sealed", config.SaveKeyFile)
	require.Equal(t, "/tmp/old.sealed", config.LoadKeyFile)
	require.NoError(t, config.Validate())
}

// Ensure that default config is loaded.
func TestNewConfigDefault(t *testing.T) {
	config, err := NewConfig("")
	require.NoError(t, err)
	require.Equal(t, NewDefaultConfig(), config)
	require.Equal(t, "ciphertexts.txt", config.InputFile)
	require.Equal(t, 0.8, config.Threshold)
	require.Equal(t, byte(' '), config.Anchor)
	require.Equal(t, byte('?'), config.Sentinel)
	require.Equal(t, ModePlaintext, config.Mode)
}

// Ensure that both config file and default configs are loaded.
func TestNewConfigDefaultAndFile(t *testing.T) {
	config, err := NewConfig("configs/simple.yaml")
	require.NoError(t, err)
	require.Equal(t, 0.9, config.Threshold)
	require.Equal(t, "ciphertexts.txt", config.InputFile)
	require.Equal(t, byte(' '), config.Anchor)
	require.Equal(t, 1, config.Workers)
}

func TestNewConfigErrors(t *testing.T) {
	for _, file := range []string{
		"configs/bad-anchor.yaml",
		"configs/bad-level.yaml",
		"configs/does-not-exist.yaml",
	} {
		_, err := NewConfig(file)
		require.Error(t, err, file)
	}
}

func TestGetLogLevel(t *testing.T) {
	cases := []struct {
		level string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
	}
	for _, c := range cases {
		got, err := GetLogLevel(c.level)
		require.NoError(t, err)
		require.Equal(t, uint32(c.want), got)
	}
	_, err := GetLogLevel("trace")
	require.Error(t, err)
}

func TestParseAnchorAndSentinel(t *testing.T) {
	b, err := ParseAnchor("20")
	require.NoError(t, err)
	require.Equal(t, byte(' '), b)

	for _, s := range []string{"", "2", "2020", "zz"} {
		_, err := ParseAnchor(s)
		require.Error(t, err, s)
	}

	b, err = ParseSentinel("*")
	require.NoError(t, err)
	require.Equal(t, byte('*'), b)

	for _, s := range []string{"", "??"} {
		_, err := ParseSentinel(s)
		require.Error(t, err, s)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"threshold one", func(c *Config) { c.Threshold = 1 }, true},
		{"threshold zero", func(c *Config) { c.Threshold = 0 }, false},
		{"threshold above one", func(c *Config) { c.Threshold = 1.5 }, false},
		{"no workers", func(c *Config) { c.Workers = 0 }, false},
		{"no input", func(c *Config) { c.InputFile = "" }, false},
		{"bad stats format", func(c *Config) { c.StatsFormat = "xml" }, false},
		{"decrypt without key", func(c *Config) { c.Mode = ModeDecrypt }, false},
		{"decrypt with key", func(c *Config) { c.Mode = ModeDecrypt; c.Key = "01" }, true},
		{"decrypt with sealed key", func(c *Config) { c.Mode = ModeDecrypt; c.LoadKeyFile = "k" }, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			config := NewDefaultConfig()
			c.modify(config)
			if c.ok {
				require.NoError(t, config.Validate())
			} else {
				require.Error(t, config.Validate())
			}
		})
	}
}
