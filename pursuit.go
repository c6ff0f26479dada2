package interceptlogic

import "math"

// LeadFactor weights how far ahead of a moving target the aim point is
// placed: 0 is pure pursuit, 1 aims at the full predicted position.
const LeadFactor = 0.5

// PursuitVelocity aims straight at the target's current position at max speed
func PursuitVelocity(ic *Interceptor, t *Target) Vector {
	if !t.Active {
		return Zero
	}
	return t.Position.Sub(ic.Position).Normalize().Scale(ic.MaxSpeed)
}

// LeadPursuitVelocity aims at where the target will roughly be. The time to
// intercept is estimated from the head-on closing speed, and the aim point
// is the target position advanced by lead of that time.
func LeadPursuitVelocity(ic *Interceptor, t *Target, lead float64) Vector {
	if !t.Active {
		return Zero
	}

	closing := ic.MaxSpeed + t.Velocity.Magnitude()
	if closing < epsilon {
		return PursuitVelocity(ic, t)
	}

	tti := ic.DistanceTo(t.Position) / closing
	aim := Vector{
		X: t.Position.X + t.Velocity.X*tti*lead,
		Y: t.Position.Y + t.Velocity.Y*tti*lead,
	}
	return aim.Sub(ic.Position).Normalize().Scale(ic.MaxSpeed)
}

// FindTarget looks a target up by id
func FindTarget(targets []*Target, id string) *Target {
	for _, t := range targets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// UpdatePursuit steers a pursuing interceptor at its assigned target and
// reports whether a new velocity was set. A lost or inactive target stops
// the interceptor.
func UpdatePursuit(ic *Interceptor, targets []*Target) bool {
	if !ic.IsPursuing() {
		return false
	}
	if ic.AssignedTarget == "" {
		return false
	}

	t := FindTarget(targets, ic.AssignedTarget)
	if t == nil || !t.Active {
		ic.Stop()
		return false
	}

	ic.Velocity = LeadPursuitVelocity(ic, t, LeadFactor)
	return true
}

// UpdateAllPursuits steers every pursuing interceptor and returns how many
// are still chasing a live target.
func UpdateAllPursuits(interceptors []*Interceptor, targets []*Target) int {
	n := 0
	for _, ic := range interceptors {
		if UpdatePursuit(ic, targets) {
			n++
		}
	}
	return n
}

// InterceptStatus is a snapshot of one engagement's geometry
type InterceptStatus struct {
	Distance    float64
	ClosingRate float64 // m/s, positive when the gap shrinks
	Closing     bool
	InRange     bool
	// TimeEstimate in seconds, +Inf when not closing
	TimeEstimate float64
}

// InterceptStatusOf measures the engagement between ic and t
func InterceptStatusOf(ic *Interceptor, t *Target, killRadius float64) InterceptStatus {
	dist := ic.DistanceTo(t.Position)
	relative := ic.Velocity.Sub(t.Velocity)
	los := t.Position.Sub(ic.Position).Normalize()
	rate := relative.Dot(los)

	eta := math.Inf(1)
	if rate > 0 {
		eta = dist / rate
	}

	return InterceptStatus{
		Distance:     dist,
		ClosingRate:  rate,
		Closing:      rate > 0,
		InRange:      dist <= killRadius,
		TimeEstimate: eta,
	}
}
