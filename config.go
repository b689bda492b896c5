package main

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	File       string `yaml:"file"`        // optional, rotated with lumberjack
	MaxSizeMB  int    `yaml:"max_size_mb"` // per file before rotation
	MaxBackups int    `yaml:"max_backups"` // rotated files to keep
	Dev        bool   `yaml:"development"` // human-friendly console output
}

type OutputConfig struct {
	Format string `yaml:"format"` // used when the output path has no extension
}

type PasswordConfig struct {
	Required bool `yaml:"required"`
}

type MessageConfig struct {
	Normalize bool `yaml:"normalize"` // NFC before encoding
	Trim      bool `yaml:"trim"`      // strip surrounding whitespace
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Output   OutputConfig   `yaml:"output"`
	Password PasswordConfig `yaml:"password"`
	Message  MessageConfig  `yaml:"message"`
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Output:   OutputConfig{Format: string(FormatPNG)},
		Password: PasswordConfig{Required: true},
		Message:  MessageConfig{Normalize: true, Trim: true},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("log rotation limits can't be < 0")
	}
	f, err := ParseFormat(c.Output.Format)
	if err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if !f.Lossless() {
		return fmt.Errorf("output.format: %w: %s", ErrLossyFormat, f)
	}
	return nil
}

func (c Config) OutputFormat() Format {
	f, err := ParseFormat(c.Output.Format)
	if err != nil {
		return FormatPNG
	}
	return f
}
