// Package i18n holds the user-facing string catalogs.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

// DefaultLanguage is used when no preference is stored and as the fallback
// when a catalog cannot be loaded.
const DefaultLanguage = "en"

var supported = []language.Tag{language.English, language.Indonesian}

var matcher = language.NewMatcher(supported)

// Supported lists the language codes that have a catalog.
func Supported() []string {
	out := make([]string, len(supported))
	for i, tag := range supported {
		base, _ := tag.Base()
		out[i] = base.String()
	}
	return out
}

// Match maps a language code or Accept-Language value to the closest
// supported code. Unknown languages map to DefaultLanguage.
func Match(lang ...string) string {
	tag, _ := language.MatchStrings(matcher, lang...)
	base, _ := tag.Base()
	return base.String()
}

// Catalog is a loaded, nested string table.
type Catalog struct {
	lang string
	data map[string]any
}

// Load returns the embedded catalog for lang, falling back to the default
// catalog if it cannot be loaded.
func Load(lang string) (*Catalog, error) {
	return LoadFS(locales, lang)
}

// LoadFS is Load over an arbitrary filesystem holding locales/<code>.json.
func LoadFS(fsys fs.FS, lang string) (*Catalog, error) {
	code := Match(lang)
	c, err := readCatalog(fsys, code)
	if err == nil {
		return c, nil
	}
	if code == DefaultLanguage {
		return nil, err
	}
	fallback, ferr := readCatalog(fsys, DefaultLanguage)
	if ferr != nil {
		return nil, fmt.Errorf("loading %s: %v; fallback: %w", code, err, ferr)
	}
	return fallback, nil
}

// MustLoad is Load for the embedded catalogs, which always parse.
func MustLoad(lang string) *Catalog {
	c, err := Load(lang)
	if err != nil {
		panic(err)
	}
	return c
}

func readCatalog(fsys fs.FS, code string) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, "locales/"+code+".json")
	if err != nil {
		return nil, fmt.Errorf("could not load %s.json: %w", code, err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing %s.json: %w", code, err)
	}
	return &Catalog{lang: code, data: data}, nil
}

// Lang returns the language code of the loaded catalog.
func (c *Catalog) Lang() string { return c.lang }

// Raw returns the nested table, for clients that render strings themselves.
func (c *Catalog) Raw() map[string]any { return c.data }

// T looks up a dot-separated key and substitutes {name} placeholders from
// params. A missing key, or one that names a subtree, returns the key itself.
func (c *Catalog) T(key string, params map[string]any) string {
	if c == nil {
		return key
	}
	var node any = c.data
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return key
		}
		node, ok = m[part]
		if !ok {
			return key
		}
	}
	s, ok := node.(string)
	if !ok {
		return key
	}
	if len(params) == 0 {
		return s
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s = strings.ReplaceAll(s, "{"+name+"}", fmt.Sprint(params[name]))
	}
	return s
}
