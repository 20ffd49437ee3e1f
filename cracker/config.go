package cracker

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/liftbridge-io/mtpcrack/cracker/engine"
)

// DefaultInputFile is the ciphertext file read if none is specified.
const DefaultInputFile = "ciphertexts.txt"

const (
	defaultWorkers     = 1
	defaultStatsFormat = "text"
)

// Config contains all settings for a cracking run.
type Config struct {
	InputFile   string
	LogLevel    uint32
	Mode        Mode
	Threshold   float64
	Anchor      byte
	Sentinel    byte
	Workers     int
	Stats       bool
	StatsFormat string
	// Key is the hex key used in ModeDecrypt.
	Key string
	// SaveKeyFile receives the sealed recovered key after a crack.
	SaveKeyFile string
	// LoadKeyFile supplies a sealed key for ModeDecrypt instead of Key.
	LoadKeyFile string
}

// NewDefaultConfig creates a new Config with default settings.
func NewDefaultConfig() *Config {
	return &Config{
		InputFile:   DefaultInputFile,
		LogLevel:    uint32(log.WarnLevel),
		Mode:        ModePlaintext,
		Threshold:   engine.DefaultThreshold,
		Anchor:      engine.DefaultAnchor,
		Sentinel:    engine.DefaultSentinel,
		Workers:     defaultWorkers,
		StatsFormat: defaultStatsFormat,
	}
}

// GetLogLevel converts the level string to its corresponding int value. It
// returns an error if the level is invalid.
func GetLogLevel(level string) (uint32, error) {
	var l uint32
	switch strings.ToLower(level) {
	case "debug":
		l = uint32(log.DebugLevel)
	case "info":
		l = uint32(log.InfoLevel)
	case "warn":
		l = uint32(log.WarnLevel)
	case "error":
		l = uint32(log.ErrorLevel)
	default:
		return 0, fmt.Errorf("Invalid log.level setting %q", level)
	}
	return l, nil
}

// ParseAnchor parses a frequency anchor given as two hex digits.
func ParseAnchor(s string) (byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 1 {
		return 0, fmt.Errorf("Invalid anchor %q: want a single hex byte", s)
	}
	return b[0], nil
}

// ParseSentinel parses a sentinel given as a single ASCII character.
func ParseSentinel(s string) (byte, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("Invalid sentinel %q: want a single character", s)
	}
	return s[0], nil
}

// NewConfig creates a new Config with default settings and applies any
// settings from the given configuration file.
func NewConfig(configFile string) (*Config, error) {
	config := NewDefaultConfig()
	if configFile == "" {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return config, nil
		}
		return nil, errors.Wrapf(err, "failed to read config %s", configFile)
	}

	if v.IsSet("input.file") {
		config.InputFile = v.GetString("input.file")
	}

	if v.IsSet("log.level") {
		levelInt, err := GetLogLevel(v.GetString("log.level"))
		if err != nil {
			return nil, err
		}
		config.LogLevel = levelInt
	}

	if err := parseEngineConfig(config, v); err != nil {
		return nil, err
	}

	if v.IsSet("stats.enabled") {
		config.Stats = v.GetBool("stats.enabled")
	}

	if v.IsSet("stats.format") {
		config.StatsFormat = v.GetString("stats.format")
	}

	if v.IsSet("keystore.save") {
		config.SaveKeyFile = v.GetString("keystore.save")
	}

	if v.IsSet("keystore.load") {
		config.LoadKeyFile = v.GetString("keystore.load")
	}

	return config, nil
}

// parseEngineConfig parses the `engine` section of a config file and
// populates the given Config.
func parseEngineConfig(config *Config, v *viper.Viper) error {
	if v.IsSet("engine.threshold") {
		config.Threshold = v.GetFloat64("engine.threshold")
	}

	if v.IsSet("engine.anchor") {
		anchor, err := ParseAnchor(v.GetString("engine.anchor"))
		if err != nil {
			return err
		}
		config.Anchor = anchor
	}

	if v.IsSet("engine.sentinel") {
		sentinel, err := ParseSentinel(v.GetString("engine.sentinel"))
		if err != nil {
			return err
		}
		config.Sentinel = sentinel
	}

	if v.IsSet("engine.workers") {
		config.Workers = v.GetInt("engine.workers")
	}

	return nil
}

// Validate checks the settings that cannot be checked while parsing.
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return errors.New("no input file")
	}
	if c.Threshold <= 0 || c.Threshold > 1 {
		return errors.Errorf("threshold %v out of range (0, 1]", c.Threshold)
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.StatsFormat {
	case "text", "json":
	default:
		return errors.Errorf("unknown stats format %q", c.StatsFormat)
	}
	if c.Mode == ModeDecrypt && c.Key == "" && c.LoadKeyFile == "" {
		return errors.New("decrypt mode needs a key")
	}
	return nil
}

// engineOptions converts the engine settings into engine options.
func (c *Config) engineOptions() []engine.Option {
	return []engine.Option{
		engine.WithThreshold(c.Threshold),
		engine.WithAnchor(c.Anchor),
		engine.WithSentinel(c.Sentinel),
		engine.WithWorkers(c.Workers),
	}
}
