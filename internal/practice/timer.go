package practice

import (
	"context"
	"time"
)

// Ticker delivers the one-second ticks of the exam clock.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTicker is the TickerFactory backed by time.Ticker.
func NewTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

func (s *Session) startTimerLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	s.timerGen++
	s.stopTimer = cancel
	go s.runTimer(ctx, s.newTicker(time.Second), s.timerGen)
}

func (s *Session) cancelTimerLocked() {
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
	s.timerGen++
}

func (s *Session) runTimer(ctx context.Context, t Ticker, gen uint64) {
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			if s.tick(gen) {
				return
			}
		}
	}
}

// tick applies one second to the clock of timer generation gen and reports
// whether that timer is done. A stale generation never touches the session.
func (s *Session) tick(gen uint64) bool {
	s.mu.Lock()
	if gen != s.timerGen || s.view != ViewQuestion || s.timeRemaining == nil {
		s.mu.Unlock()
		return true
	}
	if *s.timeRemaining > 1 {
		*s.timeRemaining--
		s.mu.Unlock()
		return false
	}
	*s.timeRemaining = 0
	res := s.terminateLocked(true)
	hook := s.onFinish
	s.mu.Unlock()

	if hook != nil {
		hook(res)
	}
	return true
}
