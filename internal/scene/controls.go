package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OrbitControls orbits a camera around Target with damped rotation.
// Angles follow the spherical convention: Theta around Y, Phi from +Y.
type OrbitControls struct {
	Target Vec3

	Damping     float64 // 0 disables damping
	RotateSpeed float64
	AutoRotate  float64 // radians per update, 0 disables

	MinDistance float64
	MaxDistance float64
	MinPolar    float64
	MaxPolar    float64

	theta, phi, radius float64
	dTheta, dPhi       float64
}

// NewOrbitControls captures the camera's current offset from target.
func NewOrbitControls(cam Camera, target Vec3) *OrbitControls {
	oc := &OrbitControls{
		Target:      target,
		Damping:     0.05,
		RotateSpeed: 1,
		MaxPolar:    math.Pi,
	}
	off := cam.Position.Sub(target)
	oc.radius = off.Len()
	if oc.radius > 0 {
		oc.theta = math.Atan2(off.X(), off.Z())
		oc.phi = math.Acos(mgl64.Clamp(off.Y()/oc.radius, -1, 1))
	}
	return oc
}

// Rotate queues a rotation; delta is in normalized device units
// (a full-width drag is 2).
func (oc *OrbitControls) Rotate(delta Vec2) {
	oc.dTheta -= math.Pi * delta.X() * oc.RotateSpeed
	oc.dPhi += math.Pi * delta.Y() * oc.RotateSpeed
}

// Update applies pending rotation to cam and decays it.
func (oc *OrbitControls) Update(cam *Camera) {
	if oc.AutoRotate != 0 {
		oc.dTheta -= oc.AutoRotate
	}
	if oc.Damping > 0 {
		oc.theta += oc.dTheta * oc.Damping
		oc.phi += oc.dPhi * oc.Damping
	} else {
		oc.theta += oc.dTheta
		oc.phi += oc.dPhi
	}

	const eps = 1e-6
	oc.phi = mgl64.Clamp(oc.phi, math.Max(oc.MinPolar, eps), math.Min(oc.MaxPolar, math.Pi-eps))
	r := oc.radius
	if oc.MinDistance > 0 && r < oc.MinDistance {
		r = oc.MinDistance
	}
	if oc.MaxDistance > 0 && r > oc.MaxDistance {
		r = oc.MaxDistance
	}
	oc.radius = r

	sinPhi := math.Sin(oc.phi)
	cam.Position = oc.Target.Add(Vec3{
		r * sinPhi * math.Sin(oc.theta),
		r * math.Cos(oc.phi),
		r * sinPhi * math.Cos(oc.theta),
	})
	cam.Target = oc.Target

	if oc.Damping > 0 {
		oc.dTheta *= 1 - oc.Damping
		oc.dPhi *= 1 - oc.Damping
	} else {
		oc.dTheta, oc.dPhi = 0, 0
	}
}

// Distance is the current orbit radius.
func (oc *OrbitControls) Distance() float64 { return oc.radius }
