package interceptlogic

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultTargetProbability is the cumulative interception probability a
// redundant auction tries to reach
const DefaultTargetProbability = 0.95

// AuctionMode tells single-winner and redundant results apart
type AuctionMode string

const (
	SingleWinner AuctionMode = "single"
	Redundant    AuctionMode = "redundant"
)

// Bid is one interceptor's entry in an auction
type Bid struct {
	AgentID    string
	Score      float64
	Components BidComponents
	// Eligible is false for bidders that could not engage; they are listed
	// with score 0 and never win
	Eligible bool

	interceptor *Interceptor
}

// AuctionResult is the outcome of one auction. It is returned by value and
// holds its own copies of the winner and bid lists.
type AuctionResult struct {
	Success  bool
	Mode     AuctionMode
	TargetID string

	// single winner
	Winner     string
	BidScore   float64
	Components BidComponents

	// redundant
	Winners        []string
	CumulativePint float64

	// AllBids are the eligible bids ranked by score, then the ineligible
	// bidders in input order
	AllBids []Bid
}

// WinnerIDs returns every interceptor committed by the auction
func (r AuctionResult) WinnerIDs() []string {
	if r.Mode == Redundant {
		return append([]string(nil), r.Winners...)
	}
	if r.Winner == "" {
		return nil
	}
	return []string{r.Winner}
}

func (r AuctionResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Auction for %s:\n", r.TargetID)

	switch {
	case !r.Success:
		b.WriteString("  No interceptors available\n")
	case r.Mode == Redundant:
		fmt.Fprintf(&b, "  Winners: %s\n", strings.Join(r.Winners, ", "))
		fmt.Fprintf(&b, "  Cumulative Pint: %.3f\n", r.CumulativePint)
	default:
		fmt.Fprintf(&b, "  Winner: %s\n", r.Winner)
		fmt.Fprintf(&b, "  Bid score: %.3f\n", r.BidScore)
	}

	if len(r.AllBids) > 0 {
		b.WriteString("  All bids:\n")
		for _, bid := range r.AllBids {
			fmt.Fprintf(&b, "    %s: %.3f\n", bid.AgentID, bid.Score)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// EngagementRegistry records which interceptors were committed, for scoring
type EngagementRegistry interface {
	RegisterEngagement(interceptorID string)
}

// CollectBids returns the bids of the interceptors that can engage, highest
// first. The sort is stable: on equal scores the interceptor listed first wins.
func CollectBids(engine BidEngine, interceptors []*Interceptor, targetPosition Vector) []Bid {
	bids := make([]Bid, 0, len(interceptors))
	for _, ic := range interceptors {
		if !ic.CanEngage() {
			continue
		}
		comps := engine.Components(ic, targetPosition)
		bids = append(bids, Bid{
			AgentID:     ic.ID,
			Score:       comps.Score(),
			Components:  comps,
			Eligible:    true,
			interceptor: ic,
		})
	}

	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].Score > bids[j].Score
	})
	return bids
}

// Auctioneer runs sealed-bid auctions for detected targets
type Auctioneer struct {
	Bids BidEngine
	// Registry is told about every committed interceptor; may be nil
	Registry EngagementRegistry
}

// NewAuctioneer creates an auctioneer whose bids fall off over maxRange
func NewAuctioneer(maxRange float64, registry EngagementRegistry) *Auctioneer {
	return &Auctioneer{Bids: BidEngine{MaxRange: maxRange}, Registry: registry}
}

// Run assigns the single best bidder to the target. If the top bidder
// refuses the assignment the auction fails; it does not fall back to the
// next bidder.
func (a *Auctioneer) Run(interceptors []*Interceptor, target *Target) AuctionResult {
	return a.award(CollectBids(a.Bids, interceptors, target.Position), interceptors, target)
}

// award commits the head of a ranked bid list
func (a *Auctioneer) award(bids []Bid, interceptors []*Interceptor, target *Target) AuctionResult {
	result := AuctionResult{
		Mode:     SingleWinner,
		TargetID: target.ID,
		AllBids:  listBids(bids, interceptors),
	}
	if len(bids) == 0 {
		return result
	}

	top := bids[0]
	if !top.interceptor.AssignTarget(target.ID) {
		return result
	}

	result.Success = true
	result.Winner = top.AgentID
	result.BidScore = top.Score
	result.Components = top.Components
	a.register(top.AgentID)
	return result
}

// RunRedundant commits bidders, best first, until the probability that at
// least one of them intercepts reaches targetProbability or bidders run out.
// Running out is not a failure: success only needs one winner.
func (a *Auctioneer) RunRedundant(interceptors []*Interceptor, target *Target, targetProbability float64) AuctionResult {
	bids := CollectBids(a.Bids, interceptors, target.Position)
	result := AuctionResult{
		Mode:     Redundant,
		TargetID: target.ID,
		AllBids:  listBids(bids, interceptors),
	}

	cumulative := 0.0
	for _, bid := range bids {
		if cumulative >= targetProbability {
			break
		}
		if !bid.interceptor.AssignTarget(target.ID) {
			continue
		}
		result.Winners = append(result.Winners, bid.AgentID)
		// P(at least one success) assuming independent interceptors
		cumulative = Clamp(1-(1-cumulative)*(1-bid.Components.Pint), 0, 1)
		a.register(bid.AgentID)
	}

	result.Success = len(result.Winners) > 0
	result.CumulativePint = cumulative
	return result
}

func (a *Auctioneer) register(id string) {
	if a.Registry != nil {
		a.Registry.RegisterEngagement(id)
	}
}

// listBids builds the transparent bid list: ranked eligible bids followed by
// every interceptor that could not bid, at score 0.
func listBids(ranked []Bid, interceptors []*Interceptor) []Bid {
	out := make([]Bid, 0, len(interceptors))
	for _, b := range ranked {
		b.interceptor = nil
		out = append(out, b)
	}
	for _, ic := range interceptors {
		if ic.CanEngage() {
			continue
		}
		out = append(out, Bid{AgentID: ic.ID})
	}
	return out
}
