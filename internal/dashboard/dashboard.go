package dashboard

import (
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/generator"
	"github.com/ziadkadry99/stockseo/internal/i18n"
)

// Dashboard serves the single-page UI, the landing page and the live state
// stream.
type Dashboard struct {
	orch *generator.Orchestrator
	pref *i18n.Preference
	log  *zap.Logger

	landingMu sync.Mutex
	landing   map[string][]byte // rendered landing page per language
}

// New creates a new Dashboard.
func New(orch *generator.Orchestrator, pref *i18n.Preference, log *zap.Logger) *Dashboard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dashboard{
		orch:    orch,
		pref:    pref,
		log:     log.Named("dashboard"),
		landing: make(map[string][]byte),
	}
}

// RegisterRoutes mounts the page routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/landing", d.ServeLanding)
}

// RegisterStreams mounts the websocket routes. They must not be wrapped in a
// request timeout.
func (d *Dashboard) RegisterStreams(r chi.Router) {
	r.Get("/ws/state", d.handleStateStream)
}
