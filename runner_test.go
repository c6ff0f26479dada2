package interceptlogic

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingObserver struct {
	detects, auctions, events, ticks int
	last                             AuctionResult
}

func (o *countingObserver) OnDetect(*World, *Target) { o.detects++ }
func (o *countingObserver) OnAuction(_ *World, r AuctionResult) {
	o.auctions++
	o.last = r
}
func (o *countingObserver) OnEvent(*World, Event) { o.events++ }
func (o *countingObserver) OnTick(*World)         { o.ticks++ }

func newTestRunner(t *testing.T, seed int64, threats int, logger *zap.Logger) (*Runner, *World) {
	t.Helper()
	s, err := NewSession(DefaultScenario(), seed)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	w := s.Setup(threats)
	return NewRunner(w, s.Scenario, logger), w
}

func TestRunnerSingleThreat(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r, w := newTestRunner(t, 1, 1, zap.New(core))
	obs := &countingObserver{}
	r.Observers = append(r.Observers, obs)

	score, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if score.Hits != 1 || score.Breaches != 0 || score.InterceptorsUsed != 1 || score.TotalTargets != 1 {
		t.Fatalf("score = %+v", score)
	}
	if !w.IsEpisodeComplete() || w.Time >= DefaultMaxTime {
		t.Fatalf("episode not complete at t=%v", w.Time)
	}

	if obs.detects != 1 || obs.auctions != 1 || obs.events != 1 || obs.ticks != w.Ticks {
		t.Fatalf("observer saw %+v over %d ticks", obs, w.Ticks)
	}
	if !obs.last.Success || obs.last.Mode != SingleWinner {
		t.Fatalf("auction = %v", obs.last)
	}

	for _, msg := range []string{"episode start", "target detected", "auction won", "intercept", "episode end"} {
		if n := logs.FilterMessage(msg).Len(); n != 1 {
			t.Errorf("%q logged %d times", msg, n)
		}
	}
	for _, entry := range logs.All() {
		if entry.ContextMap()["mod"] != "runner" {
			t.Fatalf("entry %q not scoped to runner: %v", entry.Message, entry.ContextMap())
		}
	}
}

func TestRunnerHoldsFormation(t *testing.T) {
	r, w := newTestRunner(t, 1, 1, nil)
	r.MaxTime = 0.5
	w.Interceptors[2].Position = Vector{-900, 900}

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := w.Interceptors[2].Position, FormationPosition(w.Sensor.Position, 2); got != want {
		t.Fatalf("idle interceptor at %v, want slot %v", got, want)
	}
}

func TestRunnerRedundant(t *testing.T) {
	r, w := newTestRunner(t, 3, 1, nil)
	r.Redundant = true
	obs := &countingObserver{}
	r.Observers = append(r.Observers, obs)

	score, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if obs.last.Mode != Redundant || len(obs.last.Winners) < 2 {
		t.Fatalf("auction = %v", obs.last)
	}
	if score.InterceptorsUsed != len(obs.last.Winners) || w.EngagementCount() != score.InterceptorsUsed {
		t.Fatalf("used = %d, winners = %v", score.InterceptorsUsed, obs.last.Winners)
	}
	if score.Hits != 1 {
		t.Fatalf("score = %+v", score)
	}
}

func TestRunnerCancelled(t *testing.T) {
	r, w := newTestRunner(t, 1, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	score, err := r.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if w.Ticks != 0 || score.TotalTargets != 1 {
		t.Fatalf("ticks=%d score=%+v", w.Ticks, score)
	}
}

func TestRunnerPaceAborts(t *testing.T) {
	errStop := errors.New("stop")
	r, w := newTestRunner(t, 1, 1, nil)
	calls := 0
	r.Pace = func(context.Context) error {
		calls++
		if calls == 5 {
			return errStop
		}
		return nil
	}

	if _, err := r.Run(context.Background()); !errors.Is(err, errStop) {
		t.Fatalf("err = %v, want %v", err, errStop)
	}
	if w.Ticks != 4 {
		t.Fatalf("ticks = %d, want 4", w.Ticks)
	}
}

func TestRunnerMaxTime(t *testing.T) {
	r, w := newTestRunner(t, 1, 1, nil)
	r.MaxTime = 1

	score, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if w.Time < 1 || w.Ticks > 11 {
		t.Fatalf("ran to t=%v in %d ticks", w.Time, w.Ticks)
	}
	if w.IsEpisodeComplete() || score.Hits+score.Breaches != 0 {
		t.Fatalf("target resolved within a second: %+v", score)
	}
}

func TestRunnerWithoutInterceptors(t *testing.T) {
	sc := DefaultScenario()
	sc.Interceptors = 0
	s, err := NewSession(sc, 5)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	w := s.Setup(1)
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewRunner(w, sc, zap.New(core))

	score, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if score.Breaches != 1 || score.Hits != 0 {
		t.Fatalf("score = %+v", score)
	}
	if logs.FilterMessage("no interceptor available").Len() != 1 || logs.FilterMessage("breach").Len() != 1 {
		t.Fatalf("warnings = %v", logs.All())
	}
	if g, _ := score.Grade(); g != "F" {
		t.Fatalf("grade = %s", g)
	}
}
