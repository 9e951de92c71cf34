// Package generator coordinates a batch keyword generation: it validates
// input, fans out one request per title, and records the result in the
// history and API-key registries.
package generator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/apikeys"
	"github.com/ziadkadry99/stockseo/internal/history"
	"github.com/ziadkadry99/stockseo/internal/i18n"
	"github.com/ziadkadry99/stockseo/internal/join"
	"github.com/ziadkadry99/stockseo/internal/router"
)

// Keyword count bounds and the count used when none is known.
const (
	MinCount     = 5
	MaxCount     = 50
	DefaultCount = 45
)

// subscriberBuffer is how many states a subscriber may lag before
// intermediate states are dropped for it.
const subscriberBuffer = 16

// KeywordSource generates keywords for a single title.
type KeywordSource interface {
	Generate(ctx context.Context, title string, count int, credential string) ([]string, error)
}

// Orchestrator owns the generator state. All methods are safe for
// concurrent use; only one generation runs at a time.
type Orchestrator struct {
	keys    *apikeys.Registry
	history *history.Registry
	source  KeywordSource
	nav     *router.Navigator
	lang    *i18n.Preference
	log     *zap.Logger

	mu      sync.Mutex
	state   State
	subs    map[int]chan State
	nextSub int
}

// New creates an orchestrator in the idle state. lang may be nil, in which
// case confirmation prompts use the default language.
func New(keys *apikeys.Registry, hist *history.Registry, source KeywordSource, nav *router.Navigator, lang *i18n.Preference, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		keys:    keys,
		history: hist,
		source:  source,
		nav:     nav,
		lang:    lang,
		log:     log.Named("generator"),
		state:   idle(),
		subs:    make(map[int]chan State),
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe returns a channel that receives every subsequent state, and a
// function that ends the subscription and closes the channel.
func (o *Orchestrator) Subscribe() (<-chan State, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextSub
	o.nextSub++
	ch := make(chan State, subscriberBuffer)
	o.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
			close(ch)
		})
	}
}

// setLocked replaces the state and notifies subscribers. o.mu must be held.
func (o *Orchestrator) setLocked(s State) {
	o.state = s
	for id, ch := range o.subs {
		select {
		case ch <- s:
		default:
			o.log.Debug("dropping state for slow subscriber", zap.Int("subscriber", id))
		}
	}
}

func (o *Orchestrator) fail(kind ErrorKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.setLocked(o.state.failed(kind))
}

// ParseTitles splits raw input into titles: one per line, trimmed, blank
// lines dropped.
func ParseTitles(raw string) []string {
	var titles []string
	for _, line := range strings.Split(raw, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// Generate runs one batch. It fails with ErrMissingCredential (and switches
// the view to settings), ErrNoTitle or ErrInvalidCount without any network
// call, and with ErrGenerationFailed if any title fails. On success the
// groups are in input order, the credential's usage is recorded, and a new
// history item is added.
func (o *Orchestrator) Generate(ctx context.Context, rawInput string, count int) ([]history.KeywordGroup, error) {
	o.mu.Lock()
	if o.state.Phase == PhaseLoading {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	o.state.Input = rawInput
	o.state.Count = count
	o.mu.Unlock()

	credential := o.keys.Active(ctx)
	if credential == "" {
		o.nav.Show(router.SettingsView)
		o.fail(KindMissingCredential)
		return nil, ErrMissingCredential
	}

	titles := ParseTitles(rawInput)
	if len(titles) == 0 {
		o.fail(KindNoTitle)
		return nil, ErrNoTitle
	}
	if count < MinCount || count > MaxCount {
		o.fail(KindInvalidCount)
		return nil, ErrInvalidCount
	}

	o.mu.Lock()
	if o.state.Phase == PhaseLoading {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	o.setLocked(o.state.loading())
	o.mu.Unlock()

	log := o.log.With(zap.Int("titles", len(titles)), zap.Int("count", count))
	log.Info("generating keywords")
	start := time.Now()

	results, err := join.All(ctx, len(titles), func(ctx context.Context, i int) ([]string, error) {
		kws, err := o.source.Generate(ctx, titles[i], count, credential)
		if err != nil {
			log.Warn("title failed", zap.Int("index", i), zap.String("title", titles[i]), zap.Error(err))
			return nil, fmt.Errorf("title %d: %w", i, err)
		}
		return kws, nil
	})
	if err != nil {
		log.Error("generation failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		o.fail(KindGenerationFailed)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	groups := make([]history.KeywordGroup, len(titles))
	for i, title := range titles {
		kws := results[i]
		if kws == nil {
			kws = []string{}
		}
		groups[i] = history.KeywordGroup{Title: title, Keywords: kws}
	}

	o.keys.RecordUsage(ctx, credential)
	o.history.Add(ctx, groups)

	o.mu.Lock()
	o.setLocked(o.state.succeeded(groups))
	o.mu.Unlock()

	log.Info("generation finished", zap.Duration("elapsed", time.Since(start)))
	return groups, nil
}

// UseHistoryItem loads a stored item into the generator form.
func (o *Orchestrator) UseHistoryItem(ctx context.Context, id string) (Draft, error) {
	item, ok := o.history.Get(ctx, id)
	if !ok {
		return Draft{}, fmt.Errorf("history item %q: %w", id, ErrNotFound)
	}
	return o.UseItem(item), nil
}

// UseItem shows item's groups verbatim and refills the form: input is the
// titles joined by newlines and count is the first group's keyword count.
func (o *Orchestrator) UseItem(item history.Item) Draft {
	d := Draft{
		Input:  strings.Join(history.Titles(item.Groups), "\n"),
		Count:  DefaultCount,
		Groups: item.Groups,
	}
	if len(item.Groups) > 0 && len(item.Groups[0].Keywords) > 0 {
		d.Count = len(item.Groups[0].Keywords)
	}
	if d.Groups == nil {
		d.Groups = []history.KeywordGroup{}
	}

	o.mu.Lock()
	o.setLocked(State{Phase: PhaseSuccess, Groups: d.Groups, Input: d.Input, Count: d.Count})
	o.mu.Unlock()

	o.nav.Show(router.GeneratorView)
	return d
}

func (o *Orchestrator) catalog(ctx context.Context) *i18n.Catalog {
	if o.lang == nil {
		return i18n.MustLoad(i18n.DefaultLanguage)
	}
	return o.lang.Catalog(ctx)
}

func (o *Orchestrator) confirm(ctx context.Context, c Confirmer, key string) error {
	ok, err := c.Confirm(ctx, o.catalog(ctx).T(key, nil))
	if err != nil {
		return fmt.Errorf("confirmation: %w", err)
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

// DeleteHistoryItem removes one history item after confirmation.
func (o *Orchestrator) DeleteHistoryItem(ctx context.Context, id string, c Confirmer) ([]history.Item, error) {
	if _, ok := o.history.Get(ctx, id); !ok {
		return nil, fmt.Errorf("history item %q: %w", id, ErrNotFound)
	}
	if err := o.confirm(ctx, c, "history.confirmDelete"); err != nil {
		return nil, err
	}
	return o.history.Delete(ctx, id), nil
}

// ClearHistory deletes every history item after confirmation.
func (o *Orchestrator) ClearHistory(ctx context.Context, c Confirmer) error {
	if err := o.confirm(ctx, c, "history.confirmClear"); err != nil {
		return err
	}
	o.history.Clear(ctx)
	return nil
}

// DeleteKey removes one key from the key history after confirmation. The
// active key is left unchanged.
func (o *Orchestrator) DeleteKey(ctx context.Context, key string, c Confirmer) ([]apikeys.HistoryItem, error) {
	if err := o.confirm(ctx, c, "settings.confirmDelete"); err != nil {
		return nil, err
	}
	return o.keys.Remove(ctx, key), nil
}

// ClearKeyHistory deletes the key history after confirmation.
func (o *Orchestrator) ClearKeyHistory(ctx context.Context, c Confirmer) error {
	if err := o.confirm(ctx, c, "settings.confirmClear"); err != nil {
		return err
	}
	o.keys.Clear(ctx)
	return nil
}
