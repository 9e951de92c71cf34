package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/apikeys"
	"github.com/ziadkadry99/stockseo/internal/config"
	"github.com/ziadkadry99/stockseo/internal/db"
	"github.com/ziadkadry99/stockseo/internal/generator"
	"github.com/ziadkadry99/stockseo/internal/history"
	"github.com/ziadkadry99/stockseo/internal/i18n"
	"github.com/ziadkadry99/stockseo/internal/keywords"
	"github.com/ziadkadry99/stockseo/internal/kvstore"
	"github.com/ziadkadry99/stockseo/internal/llm"
	"github.com/ziadkadry99/stockseo/internal/logging"
	"github.com/ziadkadry99/stockseo/internal/onboarding"
	"github.com/ziadkadry99/stockseo/internal/router"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   kvstore.Store
	session kvstore.Store
	keys    *apikeys.Registry
	history *history.Registry
	pref    *i18n.Preference
	nav     *router.Navigator
	tour    *onboarding.Tour
	client  *keywords.Client
	orch    *generator.Orchestrator

	closers []func() error
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `stockseo init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newApp loads the config and wires storage, registries and the generator.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newAppFromConfig(cfg)
}

func newAppFromConfig(cfg *config.Config) (*app, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log, err := logging.New(level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, func() error {
		// Syncing stderr fails on some terminals; nothing to report.
		_ = log.Sync()
		return nil
	})

	if err := a.openStore(); err != nil {
		a.Close()
		return nil, err
	}

	a.session = kvstore.NewMemoryStore()
	a.keys = apikeys.NewRegistry(a.store, log)
	a.history = history.NewRegistry(a.store, log)
	a.pref = i18n.NewPreference(a.store, log)
	a.nav = router.NewNavigator()
	a.tour = onboarding.NewTour(a.session, log)

	opts := []keywords.Option{keywords.WithLogger(log)}
	if cfg.MaxTokens > 0 {
		opts = append(opts, keywords.WithMaxTokens(cfg.MaxTokens))
	}
	model := cfg.ModelName()
	a.client = keywords.NewClient(llm.NewFactory(string(cfg.Provider), model), model, opts...)
	a.orch = a.newOrchestrator(a.client)

	if cfg.Language != "" {
		if _, ok, _ := a.store.Get(context.Background(), kvstore.KeyLanguage); !ok {
			a.pref.Set(context.Background(), cfg.Language)
		}
	}
	return a, nil
}

// openStore opens the configured storage backend under the data directory.
func (a *app) openStore() error {
	dir, err := a.cfg.ResolveDataDir()
	if err != nil {
		return err
	}

	switch a.cfg.Storage {
	case config.StorageFile:
		path := filepath.Join(dir, "store.json")
		store, err := kvstore.NewFileStore(path)
		if err != nil {
			return fmt.Errorf("opening store %s: %w", path, err)
		}
		a.store = store
	default:
		path := filepath.Join(dir, "stockseo.db")
		database, err := db.Open(path)
		if err != nil {
			return fmt.Errorf("opening database %s: %w", path, err)
		}
		a.closers = append(a.closers, database.Close)
		a.store = kvstore.NewSQLiteStore(database)
	}
	return nil
}

// newOrchestrator builds an orchestrator over source, sharing the app's
// registries and navigator.
func (a *app) newOrchestrator(source generator.KeywordSource) *generator.Orchestrator {
	return generator.New(a.keys, a.history, source, a.nav, a.pref, a.log)
}

// catalog returns the string catalog for the stored language.
func (a *app) catalog() *i18n.Catalog {
	return a.pref.Catalog(context.Background())
}

// userError turns an orchestrator error into the localized message shown to
// the user.
func (a *app) userError(err error) error {
	msg := generator.Message(err, a.catalog())
	if errors.Is(err, generator.ErrMissingCredential) {
		msg += "\nRun `stockseo keys set <KEY>` or `stockseo init`."
	}
	return errors.New(msg)
}

// Close releases the store and flushes the logger.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
}

// confirmer asks on the terminal before destructive operations, unless
// --yes was given.
func confirmer() generator.Confirmer {
	if assumeYes {
		return generator.Static(true)
	}
	return generator.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		p := promptui.Prompt{Label: prompt, IsConfirm: true}
		if _, err := p.Run(); err != nil {
			if errors.Is(err, promptui.ErrAbort) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	})
}
