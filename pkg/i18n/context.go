package i18n

import (
	"context"

	"tgkit/pkg/ctxvalue"
)

// The current locale and current translator ride on context.Context:
// values are inherited by derived contexts and isolated between
// concurrent requests, with no ambient globals involved.
var (
	localeVar  = ctxvalue.New[string]("i18n.locale")
	currentVar = ctxvalue.New[*I18n]("i18n.current")
)

// WithLocale returns a context whose current locale is code.
func WithLocale(ctx context.Context, code string) context.Context {
	return localeVar.WithValue(ctx, code)
}

// LocaleFromContext returns the locale set on ctx, if any.
func LocaleFromContext(ctx context.Context) (string, bool) {
	return localeVar.Get(ctx)
}

// NewContext returns a context carrying t as the current translator.
func NewContext(ctx context.Context, t *I18n) context.Context {
	return currentVar.WithValue(ctx, t)
}

// FromContext returns the translator set on ctx, if any.
func FromContext(ctx context.Context) (*I18n, bool) {
	return currentVar.Get(ctx)
}

// locale resolves the effective locale for ctx.
func (t *I18n) locale(ctx context.Context) string {
	if code, ok := localeVar.Get(ctx); ok {
		return code
	}
	return t.defaultLocale
}

// T translates singular in the context's current locale.
func (t *I18n) T(ctx context.Context, singular string) string {
	return t.Gettext(t.locale(ctx), singular, "", 1)
}

// N translates the singular/plural pair for n in the context's current
// locale.
func (t *I18n) N(ctx context.Context, singular, plural string, n int) string {
	return t.Gettext(t.locale(ctx), singular, plural, n)
}

// T translates singular using the context's current translator. With no
// translator on the context it degrades to the source string, which keeps
// call sites safe in tests and early startup.
func T(ctx context.Context, singular string) string {
	return N(ctx, singular, "", 1)
}

// N is the plural-aware package-level counterpart of T.
func N(ctx context.Context, singular, plural string, n int) string {
	if t, ok := FromContext(ctx); ok {
		return t.N(ctx, singular, plural, n)
	}
	if n == 1 || plural == "" {
		return singular
	}
	return plural
}

// Lazy is a deferred translation: the lookup happens on every Resolve
// call against the then-current context, never earlier and never cached.
// Useful for messages declared before the request locale is known.
type Lazy struct {
	singular string
	plural   string
	n        int
}

// LazyT defers translation of a singular message.
func LazyT(singular string) Lazy {
	return Lazy{singular: singular, n: 1}
}

// LazyN defers translation of a singular/plural pair for n.
func LazyN(singular, plural string, n int) Lazy {
	return Lazy{singular: singular, plural: plural, n: n}
}

// Resolve performs the lookup against ctx.
func (l Lazy) Resolve(ctx context.Context) string {
	return N(ctx, l.singular, l.plural, l.n)
}

// String returns the untranslated source form; use Resolve for the
// translated one.
func (l Lazy) String() string {
	if l.n == 1 || l.plural == "" {
		return l.singular
	}
	return l.plural
}
