package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type (
	// Vec2 is used for normalized device coordinates.
	Vec2 = mgl64.Vec2
	Vec3 = mgl64.Vec3
	// Mat3 is column-major, as in mgl64.
	Mat3 = mgl64.Mat3
)

func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Unit normalizes v, returning the zero vector for zero input where
// mgl64's Normalize would produce NaNs.
func Unit(v Vec3) Vec3 {
	if v.Len() == 0 {
		return Vec3{}
	}
	return v.Normalize()
}

// Euler is a rotation in radians applied in X, Y, Z order.
type Euler struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Matrix builds the rotation matrix Rx·Ry·Rz.
func (e Euler) Matrix() Mat3 {
	return mgl64.Rotate3DX(e.X).Mul3(mgl64.Rotate3DY(e.Y)).Mul3(mgl64.Rotate3DZ(e.Z))
}

// EulerFromMatrix decomposes a pure rotation matrix into XYZ order.
func EulerFromMatrix(m Mat3) Euler {
	m13 := mgl64.Clamp(m.At(0, 2), -1, 1)
	e := Euler{Y: math.Asin(m13)}
	if math.Abs(m13) < 0.9999999 {
		e.X = math.Atan2(-m.At(1, 2), m.At(2, 2))
		e.Z = math.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		e.X = math.Atan2(m.At(2, 1), m.At(1, 1))
	}
	return e
}

// LookAt returns the rotation that points an object's +Z axis from
// position towards target.
func LookAt(position, target, up Vec3) Euler {
	z := Unit(target.Sub(position))
	if z == (Vec3{}) {
		return Euler{}
	}
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	x := up.Cross(z)
	if x.Len() < 1e-9 {
		// up parallel to the view direction, nudge it.
		x = V3(0, 0, 1).Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	return EulerFromMatrix(mgl64.Mat3FromCols(x, y, z))
}
