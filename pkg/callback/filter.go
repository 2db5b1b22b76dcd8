package callback

import (
	tele "gopkg.in/telebot.v4"
)

// dataKey is the telebot context slot the filter stores decoded instances in.
const dataKey = "tgkit.callback.data"

// Filter returns telebot middleware that admits only callback queries whose
// payload decodes against this schema (and passes rule, when given).
//
// Non-matching updates are swallowed without error: a decode failure here
// usually means a late or duplicate press on a button issued by an older
// schema, which must not reach the dispatcher as an error. On a match the
// decoded instance is attached to the context; read it with Data.
//
//	bot.Handle(tele.OnCallback, onPage, pagerCB.Filter(nil))
func (s *Schema) Filter(rule func(*Instance) bool) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			in, ok := s.Match(c.Callback(), rule)
			if !ok {
				return nil
			}
			c.Set(dataKey, in)
			return next(c)
		}
	}
}

// Match evaluates the predicate against one callback query. It reports no
// match when the query or its payload is absent, when decoding fails for
// any reason, or when rule rejects the decoded instance.
func (s *Schema) Match(q *tele.Callback, rule func(*Instance) bool) (*Instance, bool) {
	if q == nil || q.Data == "" {
		return nil, false
	}
	in, err := s.Decode(q.Data)
	if err != nil {
		return nil, false
	}
	if rule != nil && !rule(in) {
		return nil, false
	}
	return in, true
}

// Data returns the instance a Filter attached to the context, or nil when
// the handler was not reached through a Filter.
func Data(c tele.Context) *Instance {
	in, _ := c.Get(dataKey).(*Instance)
	return in
}
