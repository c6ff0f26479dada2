package interceptlogic

// DefaultDetectionRadius of the sensor node, in metres
const DefaultDetectionRadius = 8000.0

// Sensor is the fixed command node. It only detects; it does not allocate.
type Sensor struct {
	Agent

	DetectionRadius float64

	detected map[string]struct{} // in range on the last scan
	reported map[string]struct{} // already handed out by Detect
}

func NewSensor(id string, position Vector, detectionRadius float64) *Sensor {
	return &Sensor{
		Agent:           Agent{ID: id, Kind: SensorAgent, Position: position, Active: true},
		DetectionRadius: detectionRadius,
		detected:        make(map[string]struct{}),
		reported:        make(map[string]struct{}),
	}
}

// Update is a no-op, the sensor node is stationary
func (s *Sensor) Update(dt float64) {}

// Detect scans targets and returns the active ones inside the detection
// radius that were not reported by an earlier call. Order follows targets.
func (s *Sensor) Detect(targets []*Target) []*Target {
	var fresh []*Target
	current := make(map[string]struct{})

	for _, t := range targets {
		if !s.InRange(t) {
			continue
		}
		current[t.ID] = struct{}{}
		if _, seen := s.reported[t.ID]; !seen {
			fresh = append(fresh, t)
			s.reported[t.ID] = struct{}{}
		}
	}

	s.detected = current
	return fresh
}

// InRange reports whether an active target is within the detection radius
func (s *Sensor) InRange(t *Target) bool {
	if !t.Active {
		return false
	}
	return s.DistanceTo(t.Position) <= s.DetectionRadius
}

// Tracked returns the targets currently inside the detection radius
func (s *Sensor) Tracked(targets []*Target) []*Target {
	var out []*Target
	for _, t := range targets {
		if s.InRange(t) {
			out = append(out, t)
		}
	}
	return out
}

// DetectedCount is the number of targets in range on the last scan
func (s *Sensor) DetectedCount() int {
	return len(s.detected)
}

// ResetDetections clears the detection history, call at episode start
func (s *Sensor) ResetDetections() {
	s.detected = make(map[string]struct{})
	s.reported = make(map[string]struct{})
}
