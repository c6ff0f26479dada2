package interceptlogic

import (
	"errors"
	"fmt"
	"math"
	"os"

	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ErrNoZone is returned when a mission has no usable zone geometry
var ErrNoZone = errors.New("mission has no defended zone")

// Mission describes the defended zone. The protected point is the centroid
// of the zone polygon.
type Mission struct {
	Description string
	Zone        orb.Geometry
}

// MissionArea gives the centre of the zone and its area in square metres
func (m *Mission) MissionArea() (centre orb.Point, area float64) {
	return planar.CentroidArea(m.Zone)
}

// Asset returns the protected point
func (m *Mission) Asset() (Vector, error) {
	if m.Zone == nil {
		return Zero, ErrNoZone
	}
	centre, _ := m.MissionArea()
	return VectorFromPoint(centre), nil
}

// Contains reports whether p is inside the zone. Only polygon zones have
// an inside; any other geometry contains nothing.
func (m *Mission) Contains(p Vector) bool {
	switch z := m.Zone.(type) {
	case orb.Polygon:
		return planar.PolygonContains(z, p.Point())
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(z, p.Point())
	}
	return false
}

// Apply moves the scenario's protected point onto the zone centroid
func (m *Mission) Apply(sc *Scenario) error {
	asset, err := m.Asset()
	if err != nil {
		return err
	}
	sc.World.Asset = asset
	return nil
}

// LoadFeatures loads the zone from a GeoJSON file
func (m *Mission) LoadFeatures(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read zone file: %w", err)
	}
	if err := m.ParseFeatures(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ParseFeatures accepts a Feature, a FeatureCollection with exactly one
// feature, or a bare geometry
func (m *Mission) ParseFeatures(data []byte) error {
	f, err := geojson.UnmarshalFeature(data)
	if err == nil {
		return m.setZone(f.Geometry)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err == nil {
		if len(fc.Features) != 1 {
			return fmt.Errorf("must have 1 feature: %v", len(fc.Features))
		}
		return m.setZone(fc.Features[0].Geometry)
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return fmt.Errorf("unable to unmarshal zone: %w", err)
	}
	return m.setZone(g.Geometry())
}

func (m *Mission) setZone(g orb.Geometry) error {
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
		m.Zone = g
		return nil
	}
	return fmt.Errorf("%w: zone must be a polygon, got %T", ErrNoZone, g)
}

// CircularZone approximates a circle of radius around centre with a closed ring
func CircularZone(centre Vector, radius float64, segments int) orb.Polygon {
	if segments < 3 {
		segments = 3
	}
	ring := make(orb.Ring, 0, segments+1)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		ring = append(ring, orb.Point{centre.X + radius*math.Cos(a), centre.Y + radius*math.Sin(a)})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

func (m Mission) String() string {
	return fmt.Sprintf("D - %s  Zone - %v", m.Description, m.Zone)
}
