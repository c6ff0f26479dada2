package interceptlogic

// BidComponents are the factors of one interceptor's bid for one target.
// They are computed on demand and never stored on the interceptor.
type BidComponents struct {
	Pint     float64 // interception probability, linear in distance
	Frem     float64 // fuel remaining
	Mpay     float64 // payload match
	U        float64 // utilization, 0 idle / 1 busy
	Distance float64 // metres to the target position
}

// Score is B = Pint * Frem * Mpay * (1 - U), bounded to [0,1]
func (c BidComponents) Score() float64 {
	return Clamp(c.Pint*c.Frem*c.Mpay*(1-c.U), 0, 1)
}

// BidEngine turns interceptor state and a target position into a bid.
// A zero MaxRange means the default detection radius.
type BidEngine struct {
	MaxRange float64
}

func (e BidEngine) maxRange() float64 {
	if e.MaxRange <= 0 {
		return DefaultDetectionRadius
	}
	return e.MaxRange
}

// Components computes the bid factors regardless of eligibility
func (e BidEngine) Components(ic *Interceptor, targetPosition Vector) BidComponents {
	dist := ic.DistanceTo(targetPosition)
	return BidComponents{
		Pint:     Clamp(1-dist/e.maxRange(), 0, 1),
		Frem:     Clamp(ic.Fuel, 0, 1),
		Mpay:     Clamp(ic.PayloadMatch, 0, 1),
		U:        ic.Utilization(),
		Distance: dist,
	}
}

// Score is the bid of ic for a target at targetPosition. An interceptor that
// cannot engage bids 0 without its components being computed.
func (e BidEngine) Score(ic *Interceptor, targetPosition Vector) float64 {
	if !ic.CanEngage() {
		return 0
	}
	return e.Components(ic, targetPosition).Score()
}
