// Package point3d implements the Point3D value type: three millimeter
// coordinates used everywhere motion is expressed in physical units.
package point3d

import "github.com/orsinium-labs/tinymath"

// Point3D holds an X/Y/Z position in millimeters.
type Point3D struct {
	X, Y, Z float32
}

// Add returns p + o.
func (p Point3D) Add(o Point3D) Point3D {
	return Point3D{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Sub returns p - o.
func (p Point3D) Sub(o Point3D) Point3D {
	return Point3D{p.X - o.X, p.Y - o.Y, p.Z - o.Z}
}

// Length returns the Euclidean length of p treated as a vector.
func (p Point3D) Length() float32 {
	return tinymath.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Axis identifies one of the three motion axes.
type Axis uint8

const (
	X Axis = iota
	Y
	Z
	NumAxes
)

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return "?"
	}
}

// Get returns the component of p named by axis.
func (p Point3D) Get(axis Axis) float32 {
	switch axis {
	case X:
		return p.X
	case Y:
		return p.Y
	default:
		return p.Z
	}
}

// With returns a copy of p with the named axis set to v.
func (p Point3D) With(axis Axis, v float32) Point3D {
	switch axis {
	case X:
		p.X = v
	case Y:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}
