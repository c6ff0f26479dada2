package interceptlogic

import (
	"math"

	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// epsilon below which a vector is treated as zero length
const epsilon = 1e-9

// Vector - a 2-D position or velocity in metres (or metres per second)
type Vector struct {
	X, Y float64
}

// Zero is the zero vector
var Zero = Vector{}

// VectorFromPoint converts an orb point into a Vector
func VectorFromPoint(p orb.Point) Vector {
	return Vector{X: p.X(), Y: p.Y()}
}

// Point returns the vector as an orb point, so it can be used with planar/geojson
func (v Vector) Point() orb.Point {
	return orb.Point{v.X, v.Y}
}

func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o, the vector pointing from o to v
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns the unit vector in the same direction.
// A (near) zero vector normalizes to the zero vector.
func (v Vector) Normalize() Vector {
	mag := v.Magnitude()
	if mag < epsilon {
		return Zero
	}
	return Vector{X: v.X / mag, Y: v.Y / mag}
}

// DistanceTo is the euclidean distance between two positions
func (v Vector) DistanceTo(o Vector) float64 {
	return planar.Distance(v.Point(), o.Point())
}

// AngleBetween returns the angle in radians between v and o, 0 if either is zero
func (v Vector) AngleBetween(o Vector) float64 {
	m1 := v.Magnitude()
	m2 := o.Magnitude()
	if m1 < epsilon || m2 < epsilon {
		return 0
	}
	return math.Acos(Clamp(v.Dot(o)/(m1*m2), -1, 1))
}

// Lerp interpolates linearly between v (t=0) and o (t=1)
func (v Vector) Lerp(o Vector, t float64) Vector {
	return Vector{X: lerp(v.X, o.X, t), Y: lerp(v.Y, o.Y, t)}
}

func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Clamp bounds value to [lo, hi]
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
