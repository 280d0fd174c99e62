// Package config loads the harness configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"zkl-file-verify/pkg/engine"
)

// Config is the root of the TOML document.
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
}

type EngineConfig struct {
	Scheme       string   `toml:"scheme"`
	Curve        string   `toml:"curve"`
	KeyCacheSize int      `toml:"key_cache_size"`
	KeysDir      string   `toml:"keys_dir"`
	ProveTimeout Duration `toml:"prove_timeout"`
	// StubKey is a hex-encoded 32-byte MAC key for the stub engine.
	StubKey string `toml:"stub_key"`
}

type OutputConfig struct {
	ProofPath string `toml:"proof_path"`
	Format    string `toml:"format"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	ToConsole  bool   `toml:"to_console"`
	FilePath   string `toml:"file_path"`
	MaxSize    int    `toml:"max_size"`    // megabytes
	MaxBackups int    `toml:"max_backups"` // files kept
	MaxAge     int    `toml:"max_age"`     // days
	Compress   bool   `toml:"compress"`
}

// Duration is a time.Duration read from strings like "90s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultKeysDir holds proving and verifying keys unless keys_dir says
// otherwise. Proofs saved by a gnark engine can only be checked later
// against the verifying key kept here.
const DefaultKeysDir = "keys"

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Scheme:       string(engine.StrategyGroth16),
			Curve:        engine.CurveBN254,
			KeyCacheSize: engine.DefaultKeyCacheSize,
			KeysDir:      DefaultKeysDir,
			ProveTimeout: Duration{engine.DefaultProveTimeout},
		},
		Output: OutputConfig{
			ProofPath: "ipfs_verification_proof.json",
			Format:    string(engine.FormatJSON),
		},
		Log: LogConfig{
			Level:      "info",
			ToConsole:  true,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown keys %v", path, undecoded)
	}
	return cfg, cfg.Validate()
}

// Parse decodes a TOML document over the defaults.
func Parse(doc string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(doc, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if _, err := engine.ParseStrategy(c.Engine.Scheme); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Engine.Curve != engine.CurveBN254 {
		result = multierror.Append(result, fmt.Errorf("engine.curve: unsupported curve %q", c.Engine.Curve))
	}
	if c.Engine.KeyCacheSize < 1 {
		result = multierror.Append(result, errors.New("engine.key_cache_size must be at least 1"))
	}
	if c.Engine.ProveTimeout.Duration < 0 {
		result = multierror.Append(result, errors.New("engine.prove_timeout must not be negative"))
	}
	if c.Engine.StubKey != "" && len(c.Engine.StubKey) != 64 {
		result = multierror.Append(result, errors.New("engine.stub_key must be 64 hex characters"))
	}
	if _, err := engine.ParseFormat(c.Output.Format); err != nil {
		result = multierror.Append(result, fmt.Errorf("output.format: %w", err))
	}
	if c.Output.ProofPath == "" {
		result = multierror.Append(result, errors.New("output.proof_path must not be empty"))
	}
	if !c.Log.ToConsole && c.Log.FilePath == "" {
		result = multierror.Append(result, errors.New("log: enable to_console or set file_path"))
	}
	return result.ErrorOrNil()
}
