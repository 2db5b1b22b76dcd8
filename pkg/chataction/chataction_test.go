package chataction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

type fakeAPI struct {
	mu      sync.Mutex
	calls   int
	threads []int
	err     error
}

func (f *fakeAPI) Notify(to tele.Recipient, action tele.ChatAction, threadID ...int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.threads = append(f.threads, threadID...)
	return f.err
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestStopBeforeStartIsNoop(t *testing.T) {
	t.Parallel()
	s := New(&fakeAPI{}, tele.ChatID(1))
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop on idle sender: %v", err)
	}
	if s.Running() {
		t.Fatalf("idle sender reports running")
	}
}

func TestDoubleStart(t *testing.T) {
	t.Parallel()
	s := New(&fakeAPI{}, tele.ChatID(1), WithInterval(time.Hour))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start err = %v, want ErrAlreadyRunning", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.Running() {
		t.Fatalf("sender reports running after Stop")
	}
	// A stopped sender can be started again.
	if err := s.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestSendsRepeatedly(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	s := New(api, tele.ChatID(1), WithInterval(20*time.Millisecond))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(90 * time.Millisecond)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if n := api.count(); n < 2 {
		t.Fatalf("sent %d actions, want >= 2", n)
	}
	// Stop is a barrier: no sends after it returns.
	n := api.count()
	time.Sleep(50 * time.Millisecond)
	if api.count() != n {
		t.Fatalf("sends continued after Stop returned")
	}
}

func TestInitialSleepDelaysFirstSend(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	s := New(api, tele.ChatID(1),
		WithInterval(10*time.Millisecond),
		WithInitialSleep(200*time.Millisecond),
	)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if n := api.count(); n != 0 {
		t.Fatalf("sent %d actions during initial sleep, want 0", n)
	}
}

func TestSendFailureTerminatesLoop(t *testing.T) {
	t.Parallel()
	boom := errors.New("chat unreachable")
	api := &fakeAPI{err: boom}
	s := New(api, tele.ChatID(1), WithInterval(10*time.Millisecond))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if n := api.count(); n != 1 {
		t.Fatalf("loop kept sending after a failure: %d calls", n)
	}
	if err := s.Stop(); !errors.Is(err, boom) {
		t.Fatalf("Stop err = %v, want the send failure", err)
	}
}

func TestThreadIDForwarded(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	s := New(api, tele.ChatID(1), WithInterval(time.Hour), WithThread(42))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.threads) == 0 || api.threads[0] != 42 {
		t.Fatalf("threads = %v, want [42]", api.threads)
	}
}

func TestRunScopesTheSender(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	workErr := errors.New("work failed")

	err := Run(context.Background(), api, tele.ChatID(1), func(context.Context) error {
		time.Sleep(30 * time.Millisecond)
		return workErr
	}, WithInterval(10*time.Millisecond))

	if !errors.Is(err, workErr) {
		t.Fatalf("Run err = %v, want the fn error", err)
	}
	if n := api.count(); n < 1 {
		t.Fatalf("sender never sent during Run")
	}
	n := api.count()
	time.Sleep(40 * time.Millisecond)
	if api.count() != n {
		t.Fatalf("sender outlived Run")
	}
}
