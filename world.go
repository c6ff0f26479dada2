package interceptlogic

import "math"

// WorldParams are the fixed geometry and timing of an engagement
type WorldParams struct {
	Width, Height float64 // metres, centred on the origin
	Dt            float64 // seconds per tick
	Asset         Vector  // protected point
	BreachRadius  float64
	KillRadius    float64
}

// DefaultWorldParams is a 10km square, 0.1s ticks, asset at the origin
func DefaultWorldParams() WorldParams {
	return WorldParams{
		Width:        10000,
		Height:       10000,
		Dt:           0.1,
		Asset:        Zero,
		BreachRadius: 500,
		KillRadius:   50,
	}
}

// World owns the simulated clock, the agents in registration order and the
// event log. It is not safe for concurrent use; every mutation happens in
// Step or through the auction entry points.
type World struct {
	Params WorldParams
	Time   float64
	Ticks  int

	Sensor       *Sensor
	Interceptors []*Interceptor
	Targets      []*Target

	events []Event
	active map[string]struct{}
	known  map[string]struct{}
	used   map[string]struct{}
}

func NewWorld(params WorldParams) *World {
	w := &World{Params: params}
	w.Reset()
	return w
}

// Reset clears the clock, log and tracking sets. Agents are dropped too;
// a new episode registers its own.
func (w *World) Reset() {
	w.Time = 0
	w.Ticks = 0
	w.Sensor = nil
	w.Interceptors = nil
	w.Targets = nil
	w.events = nil
	w.active = make(map[string]struct{})
	w.known = make(map[string]struct{})
	w.used = make(map[string]struct{})
}

// RegisterTarget adds a target in registration order. It returns false for
// an id already registered, so a resolved target can never come back. An
// inactive target is recorded but never enters the active set.
func (w *World) RegisterTarget(t *Target) bool {
	if _, ok := w.known[t.ID]; ok {
		return false
	}
	w.known[t.ID] = struct{}{}
	w.Targets = append(w.Targets, t)
	if t.Active {
		w.active[t.ID] = struct{}{}
	}
	return true
}

// RegisterEngagement marks an interceptor as used this episode
func (w *World) RegisterEngagement(interceptorID string) {
	w.used[interceptorID] = struct{}{}
}

// EngagementCount is the number of distinct interceptors committed
func (w *World) EngagementCount() int {
	return len(w.used)
}

// IsEpisodeComplete is true once every registered target is resolved
func (w *World) IsEpisodeComplete() bool {
	return len(w.active) == 0
}

// Events returns a copy of the event log in emission order
func (w *World) Events() []Event {
	return append([]Event(nil), w.events...)
}

func (w *World) isActive(id string) bool {
	_, ok := w.active[id]
	return ok
}

// ActiveTargets returns the unresolved targets in registration order
func (w *World) ActiveTargets() []*Target {
	var out []*Target
	for _, t := range w.Targets {
		if w.isActive(t.ID) {
			out = append(out, t)
		}
	}
	return out
}

// Bodies returns every agent, sensor first, then interceptors and targets
func (w *World) Bodies() []Body {
	bodies := make([]Body, 0, 1+len(w.Interceptors)+len(w.Targets))
	if w.Sensor != nil {
		bodies = append(bodies, w.Sensor)
	}
	for _, ic := range w.Interceptors {
		bodies = append(bodies, ic)
	}
	for _, t := range w.Targets {
		bodies = append(bodies, t)
	}
	return bodies
}

// InBounds reports whether p lies inside the world rectangle
func (w *World) InBounds(p Vector) bool {
	hw, hh := w.Params.Width/2, w.Params.Height/2
	return math.Abs(p.X) <= hw && math.Abs(p.Y) <= hh
}

// Step advances the world by one tick: motion and fuel first, then
// intercepts, then breaches.
func (w *World) Step() {
	dt := w.Params.Dt
	w.Time += dt
	w.Ticks++

	if w.Sensor != nil {
		w.Sensor.Update(dt)
	}
	for _, ic := range w.Interceptors {
		ic.Update(dt)
	}
	for _, t := range w.Targets {
		if t.Active {
			t.Update(dt)
		}
	}

	w.resolveIntercepts()
	w.resolveBreaches()
}

// resolveIntercepts credits the first pursuing interceptor, in registration
// order, that is within kill radius of its own assigned target.
func (w *World) resolveIntercepts() {
	for _, ic := range w.Interceptors {
		if !ic.IsPursuing() {
			continue
		}
		for _, t := range w.Targets {
			if t.ID != ic.AssignedTarget || !t.Active || !w.isActive(t.ID) {
				continue
			}
			if ic.DistanceTo(t.Position) <= w.Params.KillRadius {
				w.emit(Event{Kind: EventIntercept, InterceptorID: ic.ID, TargetID: t.ID})
				w.deactivate(t)
				ic.OnInterceptComplete()
			}
			break
		}
	}
}

func (w *World) resolveBreaches() {
	for _, t := range w.Targets {
		if !t.Active || !w.isActive(t.ID) {
			continue
		}
		if t.DistanceTo(w.Params.Asset) <= w.Params.BreachRadius {
			w.emit(Event{Kind: EventBreach, TargetID: t.ID})
			w.deactivate(t)
		}
	}
}

func (w *World) emit(e Event) {
	e.Time = w.Time
	e.Tick = w.Ticks
	w.events = append(w.events, e)
}

func (w *World) deactivate(t *Target) {
	t.Active = false
	delete(w.active, t.ID)
}

// Summary is the raw tally of the episode so far
type Summary struct {
	Hits             int
	Breaches         int
	Collisions       int
	InterceptorsUsed int
	Targets          int
	Time             float64
	Events           []Event
}

func (w *World) Summary() Summary {
	return Summary{
		Hits:             CountEvents(w.events, EventIntercept),
		Breaches:         CountEvents(w.events, EventBreach),
		Collisions:       CountEvents(w.events, EventCollision),
		InterceptorsUsed: w.EngagementCount(),
		Targets:          len(w.Targets),
		Time:             w.Time,
		Events:           w.Events(),
	}
}
