package interceptlogic

// LifecycleState of an interceptor. Interceptors are expendable: the only
// transitions are Idle -> Pursuing -> Complete.
type LifecycleState uint8

const (
	Idle     LifecycleState = iota // holding formation, available for auction
	Pursuing                       // committed to a target
	Complete                       // terminal: target killed or fuel exhausted
)

func (s LifecycleState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pursuing:
		return "pursuing"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// ReserveFuel is the fuel level at or below which an interceptor no longer
// takes new assignments. It is distinct from the empty floor at 0.
const ReserveFuel = 0.1

// InterceptorSpec holds the physical constants of an interceptor airframe
type InterceptorSpec struct {
	MaxSpeed     float64 // m/s
	FuelCapacity float64 // normalized, 1.0 is a full tank
	FuelBurnRate float64 // per second while pursuing
	PayloadType  string
}

// DefaultInterceptorSpec is the v0.1 airframe: ~120 km/h, full tank, net payload
func DefaultInterceptorSpec() InterceptorSpec {
	return InterceptorSpec{
		MaxSpeed:     33.3,
		FuelCapacity: 1.0,
		FuelBurnRate: 0.002,
		PayloadType:  "net",
	}
}

// Interceptor is an expendable, fuel constrained pursuer
type Interceptor struct {
	Agent

	Fuel         float64
	FuelBurnRate float64
	MaxSpeed     float64

	PayloadType string
	// PayloadMatch is constant 1.0 for now; reserved for payload/target-type matching
	PayloadMatch float64

	State           LifecycleState
	FormationOffset Vector
	// AssignedTarget is empty unless the interceptor is Pursuing
	AssignedTarget string
}

// NewInterceptor creates an idle interceptor with a full tank
func NewInterceptor(id string, position, formationOffset Vector, spec InterceptorSpec) *Interceptor {
	ic := &Interceptor{Agent: Agent{ID: id, Kind: InterceptorAgent}}
	ic.Reset(position, formationOffset, spec)
	return ic
}

// Reset puts the interceptor back into its initial state for a new episode
func (ic *Interceptor) Reset(position, formationOffset Vector, spec InterceptorSpec) {
	ic.Position = position
	ic.Velocity = Zero
	ic.Active = true
	ic.Fuel = spec.FuelCapacity
	ic.FuelBurnRate = spec.FuelBurnRate
	ic.MaxSpeed = spec.MaxSpeed
	ic.PayloadType = spec.PayloadType
	ic.PayloadMatch = 1.0
	ic.State = Idle
	ic.FormationOffset = formationOffset
	ic.AssignedTarget = ""
}

func (ic *Interceptor) IsIdle() bool     { return ic.State == Idle }
func (ic *Interceptor) IsPursuing() bool { return ic.State == Pursuing }
func (ic *Interceptor) IsComplete() bool { return ic.State == Complete }

// Utilization is 0 when idle and 1 when busy (pursuing or spent)
func (ic *Interceptor) Utilization() float64 {
	if ic.State == Idle {
		return 0
	}
	return 1
}

// CanEngage reports whether the interceptor may take a new assignment
func (ic *Interceptor) CanEngage() bool {
	return ic.State == Idle && ic.Fuel > ReserveFuel && ic.Active
}

// AssignTarget commits the interceptor to a target. It returns false, and
// changes nothing, when the interceptor cannot engage.
func (ic *Interceptor) AssignTarget(targetID string) bool {
	if !ic.CanEngage() {
		return false
	}
	ic.AssignedTarget = targetID
	ic.State = Pursuing
	return true
}

// OnInterceptComplete is called by the world when this interceptor killed its target
func (ic *Interceptor) OnInterceptComplete() {
	ic.State = Complete
	ic.Stop()
	ic.AssignedTarget = ""
}

// Update applies the per-state rules for one tick
func (ic *Interceptor) Update(dt float64) {
	if !ic.Active {
		return
	}

	switch ic.State {
	case Idle:
		// formation keeping is done outside the interceptor
		ic.Stop()

	case Pursuing:
		ic.Fuel -= ic.FuelBurnRate * dt
		if ic.Fuel <= 0 {
			ic.Fuel = 0
			ic.State = Complete
			ic.AssignedTarget = ""
			ic.Stop()
			return
		}
		// velocity is steered by the pursuit controller
		ic.Move(dt)

	case Complete:
		ic.Stop()
	}
}
