package interceptlogic

import (
	"math"
	"strings"
	"testing"
)

type recordingRegistry struct {
	ids []string
}

func (r *recordingRegistry) RegisterEngagement(id string) {
	r.ids = append(r.ids, id)
}

func newStillTarget(id string, pos Vector) *Target {
	return NewTarget(id, pos, pos, 0)
}

func TestAuctionPicksHighestBid(t *testing.T) {
	near := newTestInterceptor("interceptor_1", Vector{800, 0})
	far := newTestInterceptor("interceptor_2", Vector{4000, 0})
	target := newStillTarget("target_3", Zero)
	reg := &recordingRegistry{}

	res := NewAuctioneer(8000, reg).Run([]*Interceptor{far, near}, target)

	if !res.Success || res.Winner != "interceptor_1" || res.Mode != SingleWinner {
		t.Fatalf("unexpected result: %+v", res)
	}
	if math.Abs(res.BidScore-0.9) > 1e-12 || res.Components.Distance != 800 {
		t.Fatalf("winning bid = %v %+v", res.BidScore, res.Components)
	}
	if !near.IsPursuing() || near.AssignedTarget != "target_3" {
		t.Fatalf("winner not assigned: %v %q", near.State, near.AssignedTarget)
	}
	if !far.IsIdle() {
		t.Fatalf("loser should stay idle, got %v", far.State)
	}
	if len(reg.ids) != 1 || reg.ids[0] != "interceptor_1" {
		t.Fatalf("registry = %v", reg.ids)
	}
}

func TestAuctionTieGoesToFirstListed(t *testing.T) {
	left := newTestInterceptor("interceptor_1", Vector{-100, 0})
	right := newTestInterceptor("interceptor_2", Vector{100, 0})

	res := NewAuctioneer(8000, nil).Run([]*Interceptor{left, right}, newStillTarget("target_3", Vector{0, 1000}))
	if res.Winner != "interceptor_1" {
		t.Fatalf("winner = %s, want interceptor_1", res.Winner)
	}

	left.Reset(Vector{-100, 0}, Zero, DefaultInterceptorSpec())
	right.Reset(Vector{100, 0}, Zero, DefaultInterceptorSpec())
	res = NewAuctioneer(8000, nil).Run([]*Interceptor{right, left}, newStillTarget("target_4", Vector{0, 1000}))
	if res.Winner != "interceptor_2" {
		t.Fatalf("winner = %s, want interceptor_2", res.Winner)
	}
}

func TestAuctionFailsWhenTopBidderRefuses(t *testing.T) {
	near := newTestInterceptor("interceptor_1", Vector{800, 0})
	far := newTestInterceptor("interceptor_2", Vector{4000, 0})
	ics := []*Interceptor{near, far}
	target := newStillTarget("target_3", Zero)
	reg := &recordingRegistry{}
	a := NewAuctioneer(8000, reg)

	// the ranking goes stale: the top bidder is committed elsewhere first
	bids := CollectBids(a.Bids, ics, target.Position)
	near.AssignTarget("target_9")

	res := a.award(bids, ics, target)
	if res.Success || res.Winner != "" {
		t.Fatalf("auction succeeded with a refused top bidder: %+v", res)
	}
	if !far.IsIdle() {
		t.Fatalf("next bidder was assigned: %v %q", far.State, far.AssignedTarget)
	}
	if near.AssignedTarget != "target_9" || len(reg.ids) != 0 {
		t.Fatalf("refusal changed state: target=%q registry=%v", near.AssignedTarget, reg.ids)
	}
}

func TestAuctionNoBidders(t *testing.T) {
	busy := newTestInterceptor("interceptor_1", Zero)
	busy.AssignTarget("target_9")
	reg := &recordingRegistry{}

	res := NewAuctioneer(8000, reg).Run([]*Interceptor{busy}, newStillTarget("target_2", Vector{100, 0}))
	if res.Success || res.Winner != "" || len(res.WinnerIDs()) != 0 {
		t.Fatalf("auction without eligible bidders succeeded: %+v", res)
	}
	if len(reg.ids) != 0 {
		t.Fatalf("registry touched: %v", reg.ids)
	}
	if len(res.AllBids) != 1 || res.AllBids[0].Eligible || res.AllBids[0].Score != 0 {
		t.Fatalf("ineligible bidder should be listed at 0: %+v", res.AllBids)
	}

	res = NewAuctioneer(8000, nil).Run(nil, newStillTarget("target_3", Zero))
	if res.Success || len(res.AllBids) != 0 {
		t.Fatalf("empty auction: %+v", res)
	}
}

func TestAuctionBidsRanked(t *testing.T) {
	var ics []*Interceptor
	for i, x := range []float64{3000, 500, 7000, 500, 1200} {
		ics = append(ics, newTestInterceptor(string(rune('a'+i)), Vector{x, 0}))
	}
	ics[2].Fuel = 0.05

	res := NewAuctioneer(8000, nil).Run(ics, newStillTarget("target", Zero))
	var eligible []Bid
	for i, b := range res.AllBids {
		if !b.Eligible {
			if b.Score != 0 {
				t.Fatalf("ineligible bid %s scored %v", b.AgentID, b.Score)
			}
			continue
		}
		if i > 0 && b.Score > res.AllBids[i-1].Score {
			t.Fatalf("bids not ranked: %+v", res.AllBids)
		}
		eligible = append(eligible, b)
	}
	if len(eligible) != 4 || len(res.AllBids) != 5 {
		t.Fatalf("eligible=%d all=%d", len(eligible), len(res.AllBids))
	}
	// b and d tie; b is listed first
	if eligible[0].AgentID != "b" || eligible[1].AgentID != "d" || res.AllBids[4].AgentID != "c" {
		t.Fatalf("order = %+v", res.AllBids)
	}
}

func redundantFixture() ([]*Interceptor, *Target) {
	return []*Interceptor{
		newTestInterceptor("interceptor_1", Vector{4000, 0}), // Pint 0.5
		newTestInterceptor("interceptor_2", Vector{800, 0}),  // Pint 0.9
		newTestInterceptor("interceptor_3", Vector{1600, 0}), // Pint 0.8
	}, newStillTarget("target_4", Zero)
}

func TestRedundantStopsAtTargetProbability(t *testing.T) {
	ics, target := redundantFixture()
	reg := &recordingRegistry{}

	res := NewAuctioneer(8000, reg).RunRedundant(ics, target, 0.95)
	if !res.Success || res.Mode != Redundant {
		t.Fatalf("unexpected result: %+v", res)
	}
	want := []string{"interceptor_2", "interceptor_3"}
	if strings.Join(res.Winners, ",") != strings.Join(want, ",") {
		t.Fatalf("winners = %v, want %v", res.Winners, want)
	}
	if math.Abs(res.CumulativePint-0.98) > 1e-12 {
		t.Fatalf("cumulative = %v, want 0.98", res.CumulativePint)
	}
	if !ics[0].IsIdle() {
		t.Fatalf("bidder past the threshold was assigned")
	}
	if strings.Join(reg.ids, ",") != strings.Join(want, ",") {
		t.Fatalf("registry = %v", reg.ids)
	}
}

func TestRedundantExhaustsBidders(t *testing.T) {
	ics, target := redundantFixture()
	res := NewAuctioneer(8000, nil).RunRedundant(ics, target, 0.999)

	if !res.Success || len(res.Winners) != 3 {
		t.Fatalf("winners = %v", res.Winners)
	}
	product := 1.0
	for _, b := range res.AllBids {
		product *= 1 - b.Components.Pint
	}
	if math.Abs(res.CumulativePint-(1-product)) > 1e-12 || math.Abs(res.CumulativePint-0.99) > 1e-12 {
		t.Fatalf("cumulative = %v, want %v", res.CumulativePint, 1-product)
	}
	if got := res.WinnerIDs(); len(got) != 3 {
		t.Fatalf("winner ids = %v", got)
	}
}

func TestRedundantSkipsRefusedAssignment(t *testing.T) {
	ic := newTestInterceptor("interceptor_1", Vector{800, 0})
	other := newTestInterceptor("interceptor_2", Vector{4000, 0})

	// the same airframe listed twice: the second assignment is refused
	res := NewAuctioneer(8000, nil).RunRedundant([]*Interceptor{ic, ic, other}, newStillTarget("target_3", Zero), 0.99)
	if strings.Join(res.Winners, ",") != "interceptor_1,interceptor_2" {
		t.Fatalf("winners = %v", res.Winners)
	}
	if math.Abs(res.CumulativePint-0.95) > 1e-12 {
		t.Fatalf("cumulative = %v, want 0.95", res.CumulativePint)
	}
}

func TestRedundantNoBidders(t *testing.T) {
	res := NewAuctioneer(8000, nil).RunRedundant(nil, newStillTarget("target_1", Zero), 0.95)
	if res.Success || res.CumulativePint != 0 || len(res.Winners) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAuctionResultString(t *testing.T) {
	ic := newTestInterceptor("interceptor_1", Vector{5000, 0})
	res := NewAuctioneer(8000, nil).Run([]*Interceptor{ic}, newStillTarget("target_2", Zero))
	want := "Auction for target_2:\n  Winner: interceptor_1\n  Bid score: 0.375\n  All bids:\n    interceptor_1: 0.375"
	if got := res.String(); got != want {
		t.Fatalf("String() =\n%s\nwant\n%s", got, want)
	}

	failed := NewAuctioneer(8000, nil).Run(nil, newStillTarget("target_3", Zero))
	if got := failed.String(); got != "Auction for target_3:\n  No interceptors available" {
		t.Fatalf("String() = %q", got)
	}
}
