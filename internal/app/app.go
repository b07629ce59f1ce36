package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/telly/internal/config"
	"github.com/five82/telly/internal/logging"
	"github.com/five82/telly/internal/prefs"
	"github.com/five82/telly/internal/tvmaze"
	"github.com/five82/telly/internal/ui"
)

// Options configure the telly application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/telly/prefs.toml
	Verbose    bool
	Overrides  Overrides
}

// Overrides are command line values that win over the config file. Nil
// fields leave the loaded value alone.
type Overrides struct {
	Page           *int
	MinQueryLength *int
	Debounce       *time.Duration
}

// Env is the wired runtime shared by the TUI and the scripting commands.
type Env struct {
	Config config.Config
	Logger *zap.Logger
	Client *tvmaze.Client
}

// Bootstrap loads configuration, applies overrides and builds the logger and
// API client.
func Bootstrap(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := opts.Overrides.apply(&cfg); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		File:    cfg.LogFile,
		Level:   cfg.LogLevel,
		Verbose: opts.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := tvmaze.NewClient(tvmaze.Options{
		BaseURL:      cfg.APIBase,
		Timeout:      cfg.RequestTimeout,
		RateRequests: cfg.RateRequests,
		RateWindow:   cfg.RateWindow,
		CacheSize:    cfg.CacheSize,
		CacheTTL:     cfg.CacheTTL,
		Logger:       logger,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init tvmaze client: %w", err)
	}

	logger.Debug("bootstrapped",
		zap.String("api_base", cfg.APIBase),
		zap.Int("page", cfg.Page),
		zap.Duration("debounce", cfg.Debounce),
		zap.Int("min_query_length", cfg.MinQueryLength))

	return &Env{Config: cfg, Logger: logger, Client: client}, nil
}

// Close flushes the logger.
func (e *Env) Close() {
	_ = e.Logger.Sync()
}

func (o Overrides) apply(cfg *config.Config) error {
	if o.Page != nil {
		cfg.Page = *o.Page
	}
	if o.MinQueryLength != nil {
		cfg.MinQueryLength = *o.MinQueryLength
	}
	if o.Debounce != nil {
		cfg.Debounce = *o.Debounce
	}
	return cfg.Validate()
}

// Run boots the telly TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		env.Logger.Warn("load prefs failed", zap.Error(err))
	}

	env.Logger.Info("starting ui", zap.String("theme", userPrefs.Theme))
	return ui.Run(ui.Options{
		Context:      ctx,
		Catalog:      env.Client,
		Config:       env.Config,
		Logger:       env.Logger,
		ThemeName:    userPrefs.Theme,
		PrefsPath:    opts.PrefsPath,
		InitialQuery: userPrefs.LastQuery,
	})
}
