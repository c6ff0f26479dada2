package interceptlogic

import (
	"math"
	"testing"
)

func TestBidScoreAtHalfRange(t *testing.T) {
	ic := newTestInterceptor("interceptor_1", Zero)
	engine := BidEngine{MaxRange: 8000}

	c := engine.Components(ic, Vector{5000, 0})
	if c.Distance != 5000 || c.Pint != 0.375 || c.Frem != 1 || c.Mpay != 1 || c.U != 0 {
		t.Fatalf("unexpected components: %+v", c)
	}
	if s := engine.Score(ic, Vector{5000, 0}); math.Abs(s-0.375) > 1e-12 {
		t.Fatalf("score = %v, want 0.375", s)
	}
}

func TestBidDefaultsToDetectionRange(t *testing.T) {
	ic := newTestInterceptor("interceptor_1", Zero)
	if s := (BidEngine{}).Score(ic, Vector{4000, 0}); s != 0.5 {
		t.Fatalf("score with default range = %v, want 0.5", s)
	}
}

func TestBidOutOfRangeIsZero(t *testing.T) {
	ic := newTestInterceptor("interceptor_1", Zero)
	engine := BidEngine{MaxRange: 8000}
	if s := engine.Score(ic, Vector{9000, 0}); s != 0 {
		t.Fatalf("score beyond max range = %v, want 0", s)
	}
}

func TestBidScalesWithFuel(t *testing.T) {
	ic := newTestInterceptor("interceptor_1", Zero)
	ic.Fuel = 0.5
	engine := BidEngine{MaxRange: 8000}
	if s := engine.Score(ic, Vector{4000, 0}); s != 0.25 {
		t.Fatalf("score = %v, want 0.25", s)
	}
}

func TestBidIneligibleIsZero(t *testing.T) {
	engine := BidEngine{MaxRange: 8000}
	target := Vector{100, 0}

	lowFuel := newTestInterceptor("interceptor_1", Zero)
	lowFuel.Fuel = 0.1

	busy := newTestInterceptor("interceptor_2", Zero)
	busy.AssignTarget("target_9")

	spent := newTestInterceptor("interceptor_3", Zero)
	spent.AssignTarget("target_9")
	spent.OnInterceptComplete()

	inactive := newTestInterceptor("interceptor_4", Zero)
	inactive.Active = false

	for _, ic := range []*Interceptor{lowFuel, busy, spent, inactive} {
		if s := engine.Score(ic, target); s != 0 {
			t.Errorf("%s (%v, fuel %v, active %v) bid %v, want 0", ic.ID, ic.State, ic.Fuel, ic.Active, s)
		}
	}
}

func TestBidComponentsScoreBounded(t *testing.T) {
	c := BidComponents{Pint: 2, Frem: 1, Mpay: 1, U: -1}
	if s := c.Score(); s != 1 {
		t.Fatalf("score = %v, want clamp to 1", s)
	}
}
