package store

import (
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config describes where and how tokenbar keeps its data.
type Config interface {
	BasePath() string
	Address() string
	LogFile() string
	SettleDelay() time.Duration
	BarBaseline() int
	BarMargin() int
}

// LoadConfig reads .tokenbar.yaml from ./ or $TOKENBAR_CONFIG_PATH, with
// TOKENBAR_* environment overrides.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.tokenbar.db")
	v.SetDefault("address", "")
	v.SetDefault("log_file", "")
	v.SetDefault("settle_delay", "500ms")
	v.SetDefault("bar.baseline", 3)
	v.SetDefault("bar.margin", 1)
	v.SetConfigName(".tokenbar") // .yaml is implicit
	v.SetEnvPrefix("TOKENBAR")
	v.AutomaticEnv()

	if override := os.Getenv("TOKENBAR_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, err
	}
	logFile := v.GetString("log_file")
	if logFile != "" {
		if logFile, err = homedir.Expand(logFile); err != nil {
			return nil, err
		}
	}

	return &fileConfig{
		Path:     path,
		Wallet:   v.GetString("address"),
		Log:      logFile,
		Settle:   v.GetDuration("settle_delay"),
		Baseline: v.GetInt("bar.baseline"),
		Margin:   v.GetInt("bar.margin"),
	}, nil
}

type fileConfig struct {
	Path     string        `json:"path"`
	Wallet   string        `json:"address"`
	Log      string        `json:"log_file"`
	Settle   time.Duration `json:"settle_delay"`
	Baseline int           `json:"baseline"`
	Margin   int           `json:"margin"`
}

func (f *fileConfig) BasePath() string           { return f.Path }
func (f *fileConfig) Address() string            { return f.Wallet }
func (f *fileConfig) LogFile() string            { return f.Log }
func (f *fileConfig) SettleDelay() time.Duration { return f.Settle }
func (f *fileConfig) BarBaseline() int           { return f.Baseline }
func (f *fileConfig) BarMargin() int             { return f.Margin }

// StaticConfig is a Config with fixed values, used by tests and callers that
// already know the data directory.
type StaticConfig struct {
	Path     string
	Wallet   string
	Log      string
	Settle   time.Duration
	Baseline int
	Margin   int
}

func (s StaticConfig) BasePath() string           { return s.Path }
func (s StaticConfig) Address() string            { return s.Wallet }
func (s StaticConfig) LogFile() string            { return s.Log }
func (s StaticConfig) SettleDelay() time.Duration { return s.Settle }
func (s StaticConfig) BarBaseline() int           { return s.Baseline }
func (s StaticConfig) BarMargin() int             { return s.Margin }
