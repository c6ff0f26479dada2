package interceptlogic

import "fmt"

// An Agent is a thing - anything that can move in the world
type Agent struct {
	ID       string
	Kind     AgentKind
	Position Vector
	Velocity Vector
	Active   bool
}

// AgentKind is the variant tag, also used as id prefix
type AgentKind string

// The kinds of agent in an engagement
const (
	SensorAgent      AgentKind = "sensor"
	InterceptorAgent AgentKind = "interceptor"
	TargetAgent      AgentKind = "target"
)

// Body is implemented by the three agent variants. Update advances the
// variant's own state by dt seconds.
type Body interface {
	Base() *Agent
	Update(dt float64)
}

// Base gives access to the shared agent fields
func (a *Agent) Base() *Agent {
	return a
}

// Move integrates position by velocity over dt. Inactive agents stay put.
func (a *Agent) Move(dt float64) {
	if !a.Active {
		return
	}
	a.Position = a.Position.Add(a.Velocity.Scale(dt))
}

// Stop zeroes the velocity
func (a *Agent) Stop() {
	a.Velocity = Zero
}

func (a *Agent) DistanceTo(p Vector) float64 {
	return a.Position.DistanceTo(p)
}

// IDGenerator hands out agent ids for one session. The counter is shared by
// all kinds, so ids are unique across the session: interceptor_1 ..
// interceptor_6, target_7, ...
type IDGenerator struct {
	counter int
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next id for the given kind
func (g *IDGenerator) Next(kind AgentKind) string {
	g.counter++
	return fmt.Sprintf("%s_%d", kind, g.counter)
}

// Issued is how many ids have been handed out
func (g *IDGenerator) Issued() int {
	return g.counter
}
