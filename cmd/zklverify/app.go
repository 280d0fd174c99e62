package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"zkl-file-verify/pkg/config"
	"zkl-file-verify/pkg/engine"
	"zkl-file-verify/pkg/logging"
	"zkl-file-verify/pkg/store"
)

// globalOptions are the persistent flags shared by every subcommand. Empty
// values leave the configuration file untouched.
type globalOptions struct {
	configPath string
	scheme     string
	keysDir    string
	logLevel   string
}

func (o *globalOptions) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "TOML configuration file")
	f.StringVar(&o.scheme, "scheme", "", "proof strategy: groth16, plonk or stub")
	f.StringVar(&o.keysDir, "keys-dir", "", "directory for proving and verifying keys (default from config: keys)")
	f.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig reads the configuration file, then applies flag overrides.
func (o *globalOptions) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if o.scheme != "" {
		cfg.Engine.Scheme = o.scheme
	}
	if o.keysDir != "" {
		cfg.Engine.KeysDir = o.keysDir
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, cfg.Validate()
}

type app struct {
	cfg      config.Config
	log      zerolog.Logger
	engine   engine.Engine
	keyStore *store.KeyStore
	metrics  *http.Server
}

// newApp wires configuration, logging, key store and engine. metricsAddr
// starts a Prometheus endpoint when non-empty.
func newApp(o *globalOptions, metricsAddr string) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	logging.ConfigureGnark(logger)

	a := &app{cfg: cfg, log: logger}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithCacheSize(cfg.Engine.KeyCacheSize),
		engine.WithProveTimeout(cfg.Engine.ProveTimeout.Duration),
	}
	if cfg.Engine.KeysDir != "" {
		ks, err := store.NewKeyStore(cfg.Engine.KeysDir)
		switch {
		case errors.Is(err, store.ErrFileIOUnavailable):
			logger.Warn().Str("profile", store.Profile).Msg("no key store; keys live only for this run")
		case err != nil:
			return nil, err
		default:
			a.keyStore = ks
			opts = append(opts, engine.WithKeyStore(ks))
		}
	}
	stubOpts, err := stubOptions(cfg.Engine)
	if err != nil {
		return nil, err
	}
	opts = append(opts, stubOpts...)

	strategy, err := engine.ParseStrategy(cfg.Engine.Scheme)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(strategy, opts...)
	if err != nil {
		return nil, err
	}
	a.engine = eng

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		m, err := engine.NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		a.engine = engine.Instrument(eng, string(strategy), m)
		a.metrics = &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Str("addr", metricsAddr).Msg("metrics server failed")
			}
		}()
	}

	logger.Debug().
		Str("scheme", cfg.Engine.Scheme).
		Str("keys_dir", cfg.Engine.KeysDir).
		Dur("prove_timeout", cfg.Engine.ProveTimeout.Duration).
		Msg("engine ready")
	return a, nil
}

func stubOptions(cfg config.EngineConfig) ([]engine.Option, error) {
	if cfg.StubKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(cfg.StubKey)
	if err != nil {
		return nil, fmt.Errorf("engine.stub_key: %w", err)
	}
	return []engine.Option{engine.WithStubKey(key)}, nil
}

func (a *app) Close() {
	if a.metrics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = a.metrics.Shutdown(ctx)
}
