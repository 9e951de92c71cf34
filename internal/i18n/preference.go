package i18n

import (
	"context"

	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/kvstore"
)

// Preference persists the selected language.
type Preference struct {
	store kvstore.Store
	log   *zap.Logger
}

// NewPreference creates a preference over store.
func NewPreference(store kvstore.Store, log *zap.Logger) *Preference {
	if log == nil {
		log = zap.NewNop()
	}
	return &Preference{store: store, log: log.Named("i18n")}
}

// Get returns the stored language, or DefaultLanguage.
func (p *Preference) Get(ctx context.Context) string {
	lang, ok, err := p.store.Get(ctx, kvstore.KeyLanguage)
	if err != nil {
		p.log.Warn("reading language failed", zap.Error(err))
		return DefaultLanguage
	}
	if !ok || lang == "" {
		return DefaultLanguage
	}
	return lang
}

// Set stores the supported language closest to lang and returns it.
func (p *Preference) Set(ctx context.Context, lang string) string {
	code := Match(lang)
	if err := p.store.Set(ctx, kvstore.KeyLanguage, code); err != nil {
		p.log.Warn("saving language failed", zap.Error(err))
	}
	return code
}

// Catalog loads the catalog for the stored language.
func (p *Preference) Catalog(ctx context.Context) *Catalog {
	c, err := Load(p.Get(ctx))
	if err != nil {
		p.log.Error("loading catalog failed", zap.Error(err))
		return MustLoad(DefaultLanguage)
	}
	return c
}
