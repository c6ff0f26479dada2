package interceptlogic

import "math"

// Target is a hostile mobile agent flying a straight line, at constant
// speed, to a destination it never changes.
type Target struct {
	Agent

	Destination Vector
	Speed       float64
}

// NewTarget creates an active target heading for destination at speed
func NewTarget(id string, position, destination Vector, speed float64) *Target {
	t := &Target{
		Agent:       Agent{ID: id, Kind: TargetAgent, Position: position, Active: true},
		Destination: destination,
		Speed:       speed,
	}
	t.Velocity = destination.Sub(position).Normalize().Scale(speed)
	return t
}

// SpawnFromDirection creates a target spawnDistance away from origin along
// the bearing angleDeg (0 = east, 90 = north), heading for origin.
func SpawnFromDirection(ids *IDGenerator, origin Vector, angleDeg, spawnDistance, speed float64) *Target {
	rad := angleDeg * math.Pi / 180
	pos := Vector{
		X: origin.X + spawnDistance*math.Cos(rad),
		Y: origin.Y + spawnDistance*math.Sin(rad),
	}
	return NewTarget(ids.Next(TargetAgent), pos, origin, speed)
}

// Update moves the target along its fixed velocity
func (t *Target) Update(dt float64) {
	t.Move(dt)
}

func (t *Target) DistanceToDestination() float64 {
	return t.Position.DistanceTo(t.Destination)
}

// TimeToDestination is the straight line estimate in seconds, +Inf for a
// target that does not move.
func (t *Target) TimeToDestination() float64 {
	if t.Speed < epsilon {
		return math.Inf(1)
	}
	return t.DistanceToDestination() / t.Speed
}
