package scene

import "github.com/go-gl/mathgl/mgl64"

// Camera is a perspective camera looking at Target.
type Camera struct {
	FOV    float64 `json:"fov"` // vertical, degrees
	Aspect float64 `json:"aspect"`
	Near   float64 `json:"near"`
	Far    float64 `json:"far"`

	Position Vec3 `json:"position"`
	Target   Vec3 `json:"target"`
	Up       Vec3 `json:"up"`
}

// NewCamera returns a camera at position looking at the origin.
func NewCamera(fov, aspect, near, far float64, position Vec3) Camera {
	return Camera{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: position,
		Up:       V3(0, 1, 0),
	}
}

// View is the world-to-camera matrix.
func (c Camera) View() mgl64.Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return mgl64.LookAtV(c.Position, c.Target, up)
}

// Projection is the perspective matrix. Unset fields fall back to a 75°,
// square, 0.1..1000 frustum.
func (c Camera) Projection() mgl64.Mat4 {
	fov, aspect, near, far := c.FOV, c.Aspect, c.Near, c.Far
	if fov <= 0 {
		fov = 75
	}
	if aspect <= 0 {
		aspect = 1
	}
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = 1000
	}
	return mgl64.Perspective(mgl64.DegToRad(fov), aspect, near, far)
}

// Project maps a world point to normalized device coordinates. ok is false
// for points behind the camera.
func (c Camera) Project(p Vec3) (ndc Vec2, ok bool) {
	clip := c.Projection().Mul4(c.View()).Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 0 {
		return Vec2{}, false
	}
	return Vec2{clip.X() / w, clip.Y() / w}, true
}

// Unproject maps ndc at clip depth z (-1 near, 1 far) back to world space.
func (c Camera) Unproject(ndc Vec2, z float64) Vec3 {
	inv := c.Projection().Mul4(c.View()).Inv()
	p := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), z, 1})
	if p.W() == 0 {
		return c.Position
	}
	return p.Vec3().Mul(1 / p.W())
}

// SetViewport updates the aspect ratio for a new container size.
func (c *Camera) SetViewport(vp Viewport) {
	if a := vp.Aspect(); a > 0 {
		c.Aspect = a
	}
}
