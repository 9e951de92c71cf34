package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"net/http"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/i18n"
)

//go:embed index.html
var indexHTML []byte

//go:embed landing/*.md
var landingFS embed.FS

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithAttribute(),
	),
)

// ServeIndex serves the embedded single-page UI.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// ServeLanding serves the landing page content as an HTML fragment in the
// stored language.
func (d *Dashboard) ServeLanding(w http.ResponseWriter, r *http.Request) {
	lang := i18n.Match(d.pref.Get(r.Context()))
	page, err := d.renderLanding(lang)
	if err != nil {
		d.log.Error("rendering landing page", zap.String("lang", lang), zap.Error(err))
		http.Error(w, "landing page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", lang)
	w.Write(page)
}

// renderLanding converts the landing markdown for lang to HTML, falling back
// to the default language. Results are cached.
func (d *Dashboard) renderLanding(lang string) ([]byte, error) {
	d.landingMu.Lock()
	defer d.landingMu.Unlock()
	if page, ok := d.landing[lang]; ok {
		return page, nil
	}

	src, err := landingFS.ReadFile("landing/" + lang + ".md")
	if err != nil {
		src, err = landingFS.ReadFile("landing/" + i18n.DefaultLanguage + ".md")
		if err != nil {
			return nil, fmt.Errorf("reading landing page: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("converting landing page: %w", err)
	}
	d.landing[lang] = buf.Bytes()
	return d.landing[lang], nil
}
