// Package chataction keeps a chat-action indicator ("typing...", "sending
// photo...") alive while the bot does slow work.
//
// Telegram renders a chat action for about five seconds, so a single call
// is not enough for anything that takes longer. A Sender re-sends the
// action at a fixed interval on a background goroutine until stopped.
package chataction

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

// API is the one bot-client call the sender needs. *tele.Bot satisfies it.
type API interface {
	Notify(to tele.Recipient, action tele.ChatAction, threadID ...int) error
}

// ErrAlreadyRunning is returned by Start when the sender is already running.
var ErrAlreadyRunning = errors.New("chataction: already running")

const (
	// DefaultInterval is how often the action is re-sent.
	DefaultInterval = 5 * time.Second
	// DefaultInitialSleep delays the first send after Start.
	DefaultInitialSleep = 0
)

// Sender periodically sends one chat action to one recipient.
//
// A sender owns a single background loop. Start/Stop are safe for
// concurrent use; Stop blocks until the loop has fully exited, so callers
// may release resources the loop used as soon as Stop returns.
type Sender struct {
	api          API
	to           tele.Recipient
	action       tele.ChatAction
	threadID     int
	interval     time.Duration
	initialSleep time.Duration
	log          zerolog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	loopErr error
}

// Option configures a Sender.
type Option func(*Sender)

// WithAction overrides the chat action (default tele.Typing).
func WithAction(a tele.ChatAction) Option {
	return func(s *Sender) { s.action = a }
}

// WithInterval sets the re-send interval.
func WithInterval(d time.Duration) Option {
	return func(s *Sender) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithInitialSleep delays the first send after Start.
func WithInitialSleep(d time.Duration) Option {
	return func(s *Sender) {
		if d >= 0 {
			s.initialSleep = d
		}
	}
}

// WithThread targets a forum topic thread.
func WithThread(threadID int) Option {
	return func(s *Sender) { s.threadID = threadID }
}

// WithLogger sets the sender's logger (default: no-op).
func WithLogger(log zerolog.Logger) Option {
	return func(s *Sender) { s.log = log }
}

// New creates a sender; it does nothing until Start.
func New(api API, to tele.Recipient, opts ...Option) *Sender {
	s := &Sender{
		api:          api,
		to:           to,
		action:       tele.Typing,
		interval:     DefaultInterval,
		initialSleep: DefaultInitialSleep,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Typing creates a typing-indicator sender.
func Typing(api API, to tele.Recipient, opts ...Option) *Sender {
	return New(api, to, opts...)
}

// Running reports whether a Start has not yet been matched by a Stop.
// A loop that terminated on a send failure still counts as running until
// Stop collects it.
func (s *Sender) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done != nil
}

// Start launches the background loop. It fails with ErrAlreadyRunning when
// a previous Start was not stopped yet.
func (s *Sender) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.loopErr = nil

	go func() {
		defer close(done)
		if err := s.loop(ctx); err != nil {
			s.mu.Lock()
			s.loopErr = err
			s.mu.Unlock()
			s.log.Debug().Err(err).Msg("chat action loop terminated")
		}
	}()
	return nil
}

// Stop cancels the loop and waits for it to fully exit. Calling Stop on an
// idle sender is a no-op. It returns the error that terminated the loop,
// if sending failed before Stop was called.
func (s *Sender) Stop() error {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return nil
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.loopErr
	s.cancel, s.done, s.loopErr = nil, nil, nil
	return err
}

// loop sends the chat action once per interval until ctx is cancelled.
// The limiter starts with one token, so the first send happens right after
// the initial sleep; afterwards Wait blocks for interval minus the time
// the send itself took. A failed send ends the loop: there is no point
// "typing" into a chat we can not reach.
func (s *Sender) loop(ctx context.Context) error {
	if s.initialSleep > 0 {
		t := time.NewTimer(s.initialSleep)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}

	lim := rate.NewLimiter(rate.Every(s.interval), 1)
	count := 0
	for {
		if err := lim.Wait(ctx); err != nil {
			// Cancellation, not a failure.
			return nil
		}
		var err error
		if s.threadID != 0 {
			err = s.api.Notify(s.to, s.action, s.threadID)
		} else {
			err = s.api.Notify(s.to, s.action)
		}
		if err != nil {
			return err
		}
		count++
		s.log.Debug().
			Str("action", string(s.action)).
			Int("sent", count).
			Msg("chat action sent")
	}
}

// Run starts a sender around fn and guarantees it is stopped when fn
// returns, error or not. fn's error wins over a send failure observed by
// Stop.
//
//	err := chataction.Run(ctx, bot, chat, func(ctx context.Context) error {
//		return doSlowWork(ctx)
//	})
func Run(ctx context.Context, api API, to tele.Recipient, fn func(context.Context) error, opts ...Option) error {
	s := New(api, to, opts...)
	if err := s.Start(); err != nil {
		return err
	}
	err := fn(ctx)
	if stopErr := s.Stop(); err == nil {
		err = stopErr
	}
	return err
}
