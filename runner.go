package interceptlogic

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultMaxTime caps an episode, in simulated seconds
const DefaultMaxTime = 600.0

// Observer is told about everything the runner does. Embed BaseObserver to
// pick only the callbacks you need.
type Observer interface {
	OnDetect(w *World, t *Target)
	OnAuction(w *World, r AuctionResult)
	OnEvent(w *World, e Event)
	OnTick(w *World)
}

// BaseObserver implements Observer with no-ops
type BaseObserver struct{}

func (BaseObserver) OnDetect(*World, *Target)       {}
func (BaseObserver) OnAuction(*World, AuctionResult) {}
func (BaseObserver) OnEvent(*World, Event)           {}
func (BaseObserver) OnTick(*World)                   {}

// Runner is the episode driver loop: hold formation, detect, auction, steer,
// step, check. Interceptors are expected in formation slot order.
type Runner struct {
	World      *World
	Auctioneer *Auctioneer
	Rewards    RewardWeights

	MaxTime float64
	// Redundant switches auctions to multi-winner probabilistic coverage
	Redundant         bool
	TargetProbability float64

	Observers []Observer
	// Pace, if set, is called before every tick. Returning an error aborts
	// the episode; it is how real-time playback is throttled.
	Pace func(ctx context.Context) error

	logger *zap.Logger
}

// NewRunner wires a runner for w with the scenario's auction range and rewards
func NewRunner(w *World, sc Scenario, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		World:             w,
		Auctioneer:        NewAuctioneer(sc.DetectionRadius, w),
		Rewards:           sc.Rewards,
		MaxTime:           DefaultMaxTime,
		TargetProbability: DefaultTargetProbability,
		logger:            logger.With(zap.String("mod", "runner")),
	}
}

// Run plays the episode until every target is resolved, MaxTime passes or
// ctx is done. The score is returned in every case; the error is only set
// when the episode was aborted.
func (r *Runner) Run(ctx context.Context) (ScoreSummary, error) {
	w := r.World
	r.logger.Info("episode start",
		zap.Int("targets", len(w.Targets)),
		zap.Int("interceptors", len(w.Interceptors)),
		zap.Float64("max_time", r.MaxTime),
		zap.Bool("redundant", r.Redundant),
	)

	var abort error
	for w.Time < r.MaxTime {
		if err := ctx.Err(); err != nil {
			abort = err
			break
		}

		if w.Sensor != nil {
			HoldFormation(w.Interceptors, w.Sensor.Position)
		}
		r.allocate()
		UpdateAllPursuits(w.Interceptors, w.ActiveTargets())

		if r.Pace != nil {
			if err := r.Pace(ctx); err != nil {
				abort = err
				break
			}
		}

		seen := len(w.events)
		w.Step()
		for _, e := range w.events[seen:] {
			r.report(e)
		}
		for _, o := range r.Observers {
			o.OnTick(w)
		}

		if w.IsEpisodeComplete() {
			r.logger.Info("all threats resolved", zap.Float64("t", w.Time))
			break
		}
	}

	score := ScoreWorld(r.Rewards, w)
	grade, _ := score.Grade()
	r.logger.Info("episode end",
		zap.Float64("t", w.Time),
		zap.Int("hits", score.Hits),
		zap.Int("breaches", score.Breaches),
		zap.Int("interceptors_used", score.InterceptorsUsed),
		zap.Float64("reward", score.TotalReward),
		zap.String("grade", grade),
	)

	if abort != nil {
		r.logger.Warn("episode aborted", zap.Float64("t", w.Time), zap.Error(abort))
		return score, fmt.Errorf("episode aborted at t=%.1fs: %w", w.Time, abort)
	}
	return score, nil
}

// allocate auctions every target the sensor reports for the first time
func (r *Runner) allocate() {
	w := r.World
	if w.Sensor == nil {
		return
	}

	for _, t := range w.Sensor.Detect(w.Targets) {
		r.logger.Info("target detected",
			zap.Float64("t", w.Time),
			zap.String("target_id", t.ID),
			zap.Float64("x", t.Position.X),
			zap.Float64("y", t.Position.Y),
		)
		for _, o := range r.Observers {
			o.OnDetect(w, t)
		}

		var res AuctionResult
		if r.Redundant {
			res = r.Auctioneer.RunRedundant(w.Interceptors, t, r.TargetProbability)
		} else {
			res = r.Auctioneer.Run(w.Interceptors, t)
		}

		if res.Success {
			r.logger.Info("auction won",
				zap.Float64("t", w.Time),
				zap.String("target_id", t.ID),
				zap.Strings("winners", res.WinnerIDs()),
				zap.Float64("bid", res.BidScore),
				zap.Float64("cumulative_pint", res.CumulativePint),
			)
		} else {
			r.logger.Warn("no interceptor available",
				zap.Float64("t", w.Time),
				zap.String("target_id", t.ID),
				zap.Int("bidders", len(res.AllBids)),
			)
		}
		for _, o := range r.Observers {
			o.OnAuction(w, res)
		}
	}
}

func (r *Runner) report(e Event) {
	switch e.Kind {
	case EventIntercept:
		r.logger.Info("intercept",
			zap.Float64("t", e.Time),
			zap.String("interceptor_id", e.InterceptorID),
			zap.String("target_id", e.TargetID),
		)
	case EventBreach:
		r.logger.Warn("breach",
			zap.Float64("t", e.Time),
			zap.String("target_id", e.TargetID),
		)
	}
	for _, o := range r.Observers {
		o.OnEvent(r.World, e)
	}
}
