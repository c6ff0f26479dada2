package interceptlogic

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// ErrInvalidScenario is returned for parameters the engine cannot run
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is the full parameter set of an episode
type Scenario struct {
	World           WorldParams
	DetectionRadius float64

	Interceptors int
	Interceptor  InterceptorSpec

	TargetSpeed float64
	// SpawnMargin is how far outside the detection radius targets appear
	SpawnMargin float64

	Rewards RewardWeights
}

func DefaultScenario() Scenario {
	return Scenario{
		World:           DefaultWorldParams(),
		DetectionRadius: DefaultDetectionRadius,
		Interceptors:    6,
		Interceptor:     DefaultInterceptorSpec(),
		TargetSpeed:     20,
		SpawnMargin:     500,
		Rewards:         DefaultRewardWeights(),
	}
}

// Validate rejects parameter sets that would stall or divide by zero
func (sc Scenario) Validate() error {
	switch {
	case sc.World.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidScenario, sc.World.Dt)
	case sc.World.KillRadius <= 0:
		return fmt.Errorf("%w: kill radius must be positive, got %g", ErrInvalidScenario, sc.World.KillRadius)
	case sc.World.BreachRadius < 0:
		return fmt.Errorf("%w: breach radius must not be negative, got %g", ErrInvalidScenario, sc.World.BreachRadius)
	case sc.DetectionRadius <= 0:
		return fmt.Errorf("%w: detection radius must be positive, got %g", ErrInvalidScenario, sc.DetectionRadius)
	case sc.Interceptors < 0 || sc.Interceptors > FormationSlots:
		return fmt.Errorf("%w: interceptor count must be within 0..%d, got %d", ErrInvalidScenario, FormationSlots, sc.Interceptors)
	case sc.Interceptor.MaxSpeed < 0 || sc.TargetSpeed < 0:
		return fmt.Errorf("%w: speeds must not be negative", ErrInvalidScenario)
	case sc.Interceptor.FuelCapacity < 0 || sc.Interceptor.FuelCapacity > 1:
		return fmt.Errorf("%w: fuel capacity must be within [0,1], got %g", ErrInvalidScenario, sc.Interceptor.FuelCapacity)
	case sc.Interceptor.FuelBurnRate < 0:
		return fmt.Errorf("%w: fuel burn rate must not be negative", ErrInvalidScenario)
	}
	return nil
}

// Session is one simulation context: its own id generator and random source.
// Starting over means constructing a new session.
type Session struct {
	ID       uuid.UUID
	Seed     int64
	Scenario Scenario
	IDs      *IDGenerator

	rng *rand.Rand
}

// NewSession validates the scenario and seeds the spawn RNG
func NewSession(sc Scenario, seed int64) (*Session, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		ID:       uuid.New(),
		Seed:     seed,
		Scenario: sc,
		IDs:      NewIDGenerator(),
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// SpawnHeadings draws the bearings, in degrees, targets come from. A single
// target comes from anywhere; several are spread evenly with +-30 degrees
// of jitter each. No targets means no headings.
func (s *Session) SpawnHeadings(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		if n == 1 {
			out[i] = s.rng.Float64() * 360
			continue
		}
		base := 360 / float64(n) * float64(i)
		out[i] = base + (s.rng.Float64()*60 - 30)
	}
	return out
}

// Setup builds the world for an episode: sensor on the asset, interceptors
// in formation around it and numTargets targets just outside detection range.
func (s *Session) Setup(numTargets int) *World {
	sc := s.Scenario
	w := NewWorld(sc.World)

	w.Sensor = NewSensor(s.IDs.Next(SensorAgent), sc.World.Asset, sc.DetectionRadius)
	w.Interceptors = NewFormation(s.IDs, w.Sensor.Position, sc.Interceptors, sc.Interceptor)

	spawnDist := sc.DetectionRadius + sc.SpawnMargin
	for _, heading := range s.SpawnHeadings(numTargets) {
		w.RegisterTarget(SpawnFromDirection(s.IDs, sc.World.Asset, heading, spawnDist, sc.TargetSpeed))
	}
	return w
}
