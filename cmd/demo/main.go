// Command demo is a small end-to-end bot exercising the tgkit helpers:
// a callback schema, a keyboard grid, the callback filter, the typing
// indicator and context-scoped i18n.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tele "gopkg.in/telebot.v4"

	"tgkit/internal/config"
	"tgkit/pkg/callback"
	"tgkit/pkg/chataction"
	"tgkit/pkg/i18n"
	"tgkit/pkg/keyboard"
	"tgkit/pkg/logx"
)

var fruits = []string{"apple", "banana", "cherry", "durian", "elderberry"}

// fruitCB is the payload schema for the fruit buttons: which fruit, and
// how many were picked so far (absent on the first press).
var fruitCB = callback.Must(callback.New("fruit",
	callback.EnumOf("name", fruits...),
	callback.Int("count").Optional(),
))

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to yaml config (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	log := logx.New(cfg.LogLevel)

	tr, err := i18n.New(i18n.Config{
		Path:          cfg.Locales.Path,
		DefaultLocale: cfg.Locales.Default,
		Domain:        cfg.Locales.Domain,
		Logger:        &log,
	})
	if err != nil {
		log.Error().Err(err).Msg("i18n init failed")
		os.Exit(1)
	}
	if cfg.Locales.Watch {
		go func() {
			if err := tr.Watch(ctx); err != nil {
				log.Warn().Err(err).Msg("locale watch stopped")
			}
		}()
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout.Std()},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("handler error")
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("bot init failed")
		os.Exit(1)
	}

	bot.Handle("/start", func(c tele.Context) error {
		rctx := requestContext(ctx, tr, c)

		kb := keyboard.NewInline()
		for _, name := range fruits {
			data, err := fruitCB.New(name, nil)
			if err != nil {
				return err
			}
			if err := kb.Button(name, data); err != nil {
				return err
			}
		}
		// Two fruits per row reads better on phones than one wide row.
		if err := kb.Adjust(true, 2); err != nil {
			return err
		}
		return c.Send(i18n.T(rctx, "Pick a fruit:"), kb.Markup())
	})

	bot.Handle(tele.OnCallback, func(c tele.Context) error {
		data := callback.Data(c)
		name, _ := data.String("name")
		count, _ := data.Int("count")
		count++

		rctx := requestContext(ctx, tr, c)

		// Keep the typing indicator alive while we pretend to work.
		err := chataction.Run(rctx, bot, c.Chat(), func(context.Context) error {
			time.Sleep(2 * time.Second)
			return nil
		},
			chataction.WithInterval(cfg.Typing.Interval.Std()),
			chataction.WithInitialSleep(cfg.Typing.InitialSleep.Std()),
			chataction.WithLogger(log),
		)
		if err != nil {
			return err
		}

		if err := c.Respond(); err != nil {
			return err
		}

		// Re-issue the keyboard with the press count baked into each
		// button, so the next press keeps counting.
		kb := keyboard.NewInline()
		for _, n := range fruits {
			data, err := fruitCB.New(n, count)
			if err != nil {
				return err
			}
			if err := kb.Button(n, data); err != nil {
				return err
			}
		}
		if err := kb.Adjust(true, 2); err != nil {
			return err
		}

		picked := i18n.N(rctx, "You picked a fruit:", "You picked fruits:", int(count))
		return c.Send(fmt.Sprintf("%s %s ×%d", picked, name, count), kb.Markup())
	}, fruitCB.Filter(nil))

	go func() {
		<-ctx.Done()
		bot.Stop()
	}()

	log.Info().Strs("locales", tr.Locales()).Msg("demo bot up")
	bot.Start()
}

// requestContext derives the per-update context: the translator plus the
// sender's locale, when Telegram reports one.
func requestContext(ctx context.Context, tr *i18n.I18n, c tele.Context) context.Context {
	rctx := i18n.NewContext(ctx, tr)
	if s := c.Sender(); s != nil && s.LanguageCode != "" {
		rctx = i18n.WithLocale(rctx, s.LanguageCode)
	}
	return rctx
}
