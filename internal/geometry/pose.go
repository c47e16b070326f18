// Package geometry holds the planar pose math used to relate the robot, the
// cube and the standoff pose to one another.
package geometry

import (
	"fmt"
	"math"
)

// Pose2D is a rigid-body position and orientation in the plane.
// X and Y are millimeters, Heading is radians counter-clockwise from +X.
type Pose2D struct {
	X       float64 `json:"x" mapstructure:"x"`
	Y       float64 `json:"y" mapstructure:"y"`
	Heading float64 `json:"heading" mapstructure:"heading"`
}

// Point is a planar position in millimeters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoseDegrees builds a pose whose heading is given in degrees.
func NewPoseDegrees(x, y, headingDeg float64) Pose2D {
	return Pose2D{X: x, Y: y, Heading: Radians(headingDeg)}
}

// Position drops the heading.
func (p Pose2D) Position() Point {
	return Point{X: p.X, Y: p.Y}
}

// HeadingDegrees returns the heading in degrees.
func (p Pose2D) HeadingDegrees() float64 {
	return Degrees(p.Heading)
}

func (p Pose2D) String() string {
	return fmt.Sprintf("(x=%.1f mm, y=%.1f mm, heading=%.1f deg)", p.X, p.Y, p.HeadingDegrees())
}

// Norm is the distance of the point from the origin.
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(x=%.1f mm, y=%.1f mm)", p.X, p.Y)
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// WrapRadians maps an angle into (-pi, pi].
func WrapRadians(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	switch {
	case a <= -math.Pi:
		a += 2 * math.Pi
	case a > math.Pi:
		a -= 2 * math.Pi
	}
	return a
}
