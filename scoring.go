package interceptlogic

import (
	"fmt"
	"strings"
)

// RewardWeights price each episode outcome
type RewardWeights struct {
	Hit              float64 // per intercept
	Breach           float64 // per target reaching the protected zone
	Time             float64 // per second of episode
	ExtraInterceptor float64 // per interceptor beyond the first
	Collision        float64
	PerfectDefense   float64 // bonus: no breaches and at least one hit
}

func DefaultRewardWeights() RewardWeights {
	return RewardWeights{
		Hit:              100,
		Breach:           -500,
		Time:             -0.3,
		ExtraInterceptor: -20,
		Collision:        -300,
		PerfectDefense:   100,
	}
}

// ScoreSummary is the reward breakdown of one episode
type ScoreSummary struct {
	Hits             int
	Breaches         int
	Collisions       int
	InterceptorsUsed int
	TotalTargets     int
	Time             float64

	RHit              float64
	RBreach           float64
	RTime             float64
	RExtraInterceptor float64
	RCollision        float64
	RPerfectDefense   float64
	TotalReward       float64

	weights RewardWeights
}

// ScoreEpisode prices an event log. The first interceptor used is free.
func ScoreEpisode(weights RewardWeights, events []Event, episodeTime float64, interceptorsUsed, totalTargets int) ScoreSummary {
	s := ScoreSummary{
		Hits:             CountEvents(events, EventIntercept),
		Breaches:         CountEvents(events, EventBreach),
		Collisions:       CountEvents(events, EventCollision),
		InterceptorsUsed: interceptorsUsed,
		TotalTargets:     totalTargets,
		Time:             episodeTime,
		weights:          weights,
	}

	s.RHit = float64(s.Hits) * weights.Hit
	s.RBreach = float64(s.Breaches) * weights.Breach
	s.RTime = episodeTime * weights.Time
	s.RExtraInterceptor = float64(s.extraInterceptors()) * weights.ExtraInterceptor
	s.RCollision = float64(s.Collisions) * weights.Collision
	if s.Breaches == 0 && s.Hits > 0 {
		s.RPerfectDefense = weights.PerfectDefense
	}

	s.TotalReward = s.RHit + s.RBreach + s.RTime + s.RExtraInterceptor + s.RCollision + s.RPerfectDefense
	return s
}

// ScoreWorld prices the world's current log
func ScoreWorld(weights RewardWeights, w *World) ScoreSummary {
	return ScoreEpisode(weights, w.events, w.Time, w.EngagementCount(), len(w.Targets))
}

func (s ScoreSummary) extraInterceptors() int {
	if s.InterceptorsUsed <= 1 {
		return 0
	}
	return s.InterceptorsUsed - 1
}

// Grade gives a letter grade and a one-line comment
func (s ScoreSummary) Grade() (grade, comment string) {
	rate := 0.0
	if s.TotalTargets > 0 {
		rate = float64(s.Hits) / float64(s.TotalTargets)
	}

	switch {
	case s.Breaches > 0 && rate >= 0.5:
		return "C", "Partial defense - some threats breached"
	case s.Breaches > 0:
		return "F", "Mission failed - protected zone breached"
	case s.Hits == 0:
		return "D", "No threats engaged"
	case s.TotalReward >= 150:
		return "A+", "Outstanding performance"
	case s.TotalReward >= 100:
		return "A", "Excellent performance"
	case s.TotalReward >= 50:
		return "B", "Good performance"
	case s.TotalReward >= 0:
		return "C", "Acceptable performance"
	}
	return "D", "Poor efficiency"
}

// Report renders the score breakdown for a terminal
func (s ScoreSummary) Report() string {
	w := s.weights
	rule := strings.Repeat("=", 50)

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "EPISODE SCORE REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Outcomes:")
	fmt.Fprintf(&b, "  Threats:            %d\n", s.TotalTargets)
	fmt.Fprintf(&b, "  Intercepts:         %d\n", s.Hits)
	fmt.Fprintf(&b, "  Breaches:           %d\n", s.Breaches)
	fmt.Fprintf(&b, "  Collisions:         %d\n", s.Collisions)
	fmt.Fprintf(&b, "  Interceptors used:  %d\n", s.InterceptorsUsed)
	fmt.Fprintf(&b, "  Episode time:       %.1fs\n", s.Time)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Reward Breakdown:")
	fmt.Fprintf(&b, "  Intercepts:         %+.0f  (%d x %g)\n", s.RHit, s.Hits, w.Hit)
	fmt.Fprintf(&b, "  Breaches:           %+.0f  (%d x %g)\n", s.RBreach, s.Breaches, w.Breach)
	fmt.Fprintf(&b, "  Time penalty:       %+.1f  (%.1fs x %g)\n", s.RTime, s.Time, w.Time)
	fmt.Fprintf(&b, "  Extra interceptors: %+.0f  (%d x %g)\n", s.RExtraInterceptor, s.extraInterceptors(), w.ExtraInterceptor)
	fmt.Fprintf(&b, "  Collisions:         %+.0f  (%d x %g)\n", s.RCollision, s.Collisions, w.Collision)
	fmt.Fprintf(&b, "  Perfect defense:    %+.0f\n", s.RPerfectDefense)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, strings.Repeat("-", 50))
	fmt.Fprintf(&b, "  TOTAL REWARD:       %+.1f\n", s.TotalReward)
	b.WriteString(rule)
	return b.String()
}
