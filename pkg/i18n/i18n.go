// Package i18n is a minimal translation layer with a context-scoped
// current locale.
//
// Catalogs live under one root directory, one subdirectory per locale
// code. A locale ships a compiled catalog "<domain>.<locale>.toml"
// (go-i18n message file); a directory holding only a pending
// "translate.<locale>.toml" is a startup error, since shipping an
// untranslated locale silently is worse than failing fast.
//
// Lookups that cannot be served (unknown locale, missing message) fall
// back to the source strings, so the library is safe to call before any
// catalog exists.
package i18n

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

const (
	DefaultLocale = "en"
	DefaultDomain = "bot"
)

// ErrUncompiledLocale reports a locale directory with a pending source
// catalog but no compiled one.
var ErrUncompiledLocale = errors.New("i18n: locale is not compiled")

// Config configures an I18n instance.
type Config struct {
	// Path is the locale root directory.
	Path string
	// DefaultLocale is used when the context carries no locale ("en").
	DefaultLocale string
	// Domain is the catalog file prefix ("bot").
	Domain string
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
}

// I18n holds the loaded per-locale translators.
//
// The catalog map is read-mostly: Gettext takes a read lock, Reload takes
// the write lock, so hot-reloading at runtime is safe.
type I18n struct {
	path          string
	defaultLocale string
	domain        string
	log           zerolog.Logger

	mu      sync.RWMutex
	locales map[string]*goi18n.Localizer
}

// New scans cfg.Path and loads every compiled locale catalog found there.
func New(cfg Config) (*I18n, error) {
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = DefaultLocale
	}
	if cfg.Domain == "" {
		cfg.Domain = DefaultDomain
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	t := &I18n{
		path:          cfg.Path,
		defaultLocale: cfg.DefaultLocale,
		domain:        cfg.Domain,
		log:           log,
	}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// DefaultLocale returns the configured fallback locale code.
func (t *I18n) DefaultLocale() string { return t.defaultLocale }

// Locales returns the loaded locale codes, sorted.
func (t *I18n) Locales() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.locales))
	for code := range t.locales {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Has reports whether a translator is loaded for the locale.
func (t *I18n) Has(locale string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.locales[locale]
	return ok
}

// Reload re-scans the locale root and atomically replaces the loaded
// catalogs. On error the previous catalogs stay in place.
func (t *I18n) Reload() error {
	locales, err := t.scan()
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.locales = locales
	t.mu.Unlock()
	return nil
}

func (t *I18n) scan() (map[string]*goi18n.Localizer, error) {
	base, err := language.Parse(t.defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("i18n: invalid default locale %q: %w", t.defaultLocale, err)
	}
	bundle := goi18n.NewBundle(base)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := os.ReadDir(t.path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read locale root: %w", err)
	}

	locales := make(map[string]*goi18n.Localizer)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		code := e.Name()
		compiled := filepath.Join(t.path, code, t.domain+"."+code+".toml")
		pending := filepath.Join(t.path, code, "translate."+code+".toml")

		if _, err := os.Stat(compiled); err == nil {
			if _, err := bundle.LoadMessageFile(compiled); err != nil {
				return nil, fmt.Errorf("i18n: load %s: %w", compiled, err)
			}
			locales[code] = goi18n.NewLocalizer(bundle, code)
			t.log.Debug().Str("locale", code).Str("file", compiled).Msg("loaded locale")
			continue
		}
		if _, err := os.Stat(pending); err == nil {
			return nil, fmt.Errorf("%w: found locale %q but no %s", ErrUncompiledLocale, code, filepath.Base(compiled))
		}
	}
	return locales, nil
}

// Gettext resolves singular/plural for n in the given locale.
//
// An empty locale means the default locale. When a translator for the
// locale exists, the lookup (and its plural rule) is the translator's;
// otherwise the source strings are returned: singular when n == 1 or no
// plural form was given, else plural.
func (t *I18n) Gettext(locale, singular, plural string, n int) string {
	if locale == "" {
		locale = t.defaultLocale
	}
	t.mu.RLock()
	loc := t.locales[locale]
	t.mu.RUnlock()

	if loc != nil {
		cfg := &goi18n.LocalizeConfig{MessageID: singular}
		if plural != "" {
			cfg.PluralCount = n
		}
		if msg, err := loc.Localize(cfg); err == nil && msg != "" {
			return msg
		}
	}
	if n == 1 || plural == "" {
		return singular
	}
	return plural
}
