package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectAndRayAgree(t *testing.T) {
	cam := NewCamera(75, 16.0/9, 0.1, 1000, V3(0, 0, 20))
	p := V3(4, -2, 0)

	ndc, ok := cam.Project(p)
	require.True(t, ok)

	rc := NewRaycaster()
	rc.SetFromCamera(ndc, cam)
	closest := rc.Ray.At(p.Sub(rc.Ray.Origin).Dot(rc.Ray.Dir))
	assertVec(t, p, closest)
}

func TestCenterRayLooksDownForward(t *testing.T) {
	cam := NewCamera(60, 1, 0.1, 100, V3(0, 0, 15))
	rc := NewRaycaster()
	rc.SetFromCamera(Vec2{}, cam)
	assertVec(t, V3(0, 0, 15), rc.Ray.Origin)
	assertVec(t, V3(0, 0, -1), rc.Ray.Dir)
}

func TestUnprojectInvertsProject(t *testing.T) {
	cam := NewCamera(50, 4.0/3, 0.1, 100, V3(3, 5, 12))
	cam.Target = V3(0, 1, 0)
	ndc, ok := cam.Project(V3(1, 2, -1))
	require.True(t, ok)

	near := cam.Unproject(ndc, -1)
	far := cam.Unproject(ndc, 1)
	dir := Unit(far.Sub(near))
	want := Unit(V3(1, 2, -1).Sub(near))
	assertVec(t, want, dir)
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewCamera(75, 1, 0.1, 100, V3(0, 0, 10))
	_, ok := cam.Project(V3(0, 0, 20))
	assert.False(t, ok)
}

func TestIntersectPointsThresholdAndOrder(t *testing.T) {
	rc := NewRaycaster()
	rc.Ray = Ray{Origin: V3(0, 0, 10), Dir: V3(0, 0, -1)}

	positions := []float32{
		0, 0, -5, // far, on the ray
		0.5, 0, 0, // near, within threshold
		3, 0, 0, // off the ray
		0, 0, 20, // behind the origin
	}
	hits := rc.IntersectPoints(positions, mgl64.Ident3(), Vec3{})
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Index)
	assert.Equal(t, 0, hits[1].Index)
	assert.InDelta(t, 10, hits[0].Distance, eps)
	assert.InDelta(t, 15, hits[1].Distance, eps)
}

func TestIntersectPointsAppliesTransform(t *testing.T) {
	rc := NewRaycaster()
	rc.PointThreshold = 0.1
	rc.Ray = Ray{Origin: V3(0, 0, 10), Dir: V3(0, 0, -1)}

	// A point at x=2 rotated a half turn about Y lands at x=-2, then offset back to 0.
	positions := []float32{2, 0, 0}
	rot := Euler{Y: math.Pi}.Matrix()
	hits := rc.IntersectPoints(positions, rot, V3(2, 0, 0))
	require.Len(t, hits, 1)
}

func TestIntersectSphere(t *testing.T) {
	rc := NewRaycaster()
	rc.Ray = Ray{Origin: V3(0, 0, 10), Dir: V3(0, 0, -1)}

	d, ok := rc.IntersectSphere(Vec3{}, 2)
	require.True(t, ok)
	assert.InDelta(t, 8, d, eps)

	_, ok = rc.IntersectSphere(V3(5, 0, 0), 1)
	assert.False(t, ok)
}

func TestIntersectMeshesOrientedBox(t *testing.T) {
	rc := NewRaycaster()
	rc.Ray = Ray{Origin: V3(0, 0, 20), Dir: V3(0, 0, -1)}

	near := NewMesh("near", ShapeBox, V3(3, 3, 3), Blue)
	near.Position = V3(0, 0, 5)
	far := NewMesh("far", ShapeBox, V3(3, 3, 3), Blue)
	far.Position = V3(0, 0, -5)
	miss := NewMesh("miss", ShapeBox, V3(1, 1, 1), Blue)
	miss.Position = V3(4, 0, 0)

	hits := rc.IntersectMeshes([]*Mesh{far, miss, near})
	require.Len(t, hits, 2)
	assert.Equal(t, 2, hits[0].Index)
	assert.InDelta(t, 13.5, hits[0].Distance, 1e-6)
	assert.Equal(t, 0, hits[1].Index)

	// A thin slab turned edge-on to the ray is missed; facing the ray it is hit.
	slab := NewMesh("slab", ShapeBox, V3(4, 1, 0.2), Blue)
	slab.Position = V3(1.5, 0, 0)
	hits = rc.IntersectMeshes([]*Mesh{slab})
	require.Len(t, hits, 1)

	slab.Rotation = Euler{Y: math.Pi / 2}
	hits = rc.IntersectMeshes([]*Mesh{slab})
	assert.Empty(t, hits)
}

func TestIntersectMeshesRespectsScale(t *testing.T) {
	rc := NewRaycaster()
	rc.Ray = Ray{Origin: V3(1.6, 0, 20), Dir: V3(0, 0, -1)}

	m := NewMesh("cube", ShapeBox, V3(3, 3, 3), Blue)
	assert.Empty(t, rc.IntersectMeshes([]*Mesh{m}))

	m.SetUniformScale(1.1)
	assert.Len(t, rc.IntersectMeshes([]*Mesh{m}), 1)
}

func TestOrbitControlsDampedRotation(t *testing.T) {
	cam := NewCamera(75, 1, 0.1, 1000, V3(0, 0, 30))
	oc := NewOrbitControls(cam, Vec3{})
	oc.RotateSpeed = 0.5

	oc.Update(&cam)
	assertVec(t, V3(0, 0, 30), cam.Position)

	oc.Rotate(Vec2{0.2, 0})
	for i := 0; i < 200; i++ {
		oc.Update(&cam)
	}
	assert.InDelta(t, 30, cam.Position.Len(), 1e-6)
	assert.Less(t, cam.Position[0], -1.0)
	assert.Equal(t, Vec3{}, cam.Target)
}

func TestOrbitControlsPolarLimit(t *testing.T) {
	cam := NewCamera(60, 1, 0.1, 100, V3(0, 0, 15))
	oc := NewOrbitControls(cam, Vec3{})
	oc.Damping = 0
	oc.MaxPolar = math.Pi / 2

	oc.Rotate(Vec2{0, 0.5})
	oc.Update(&cam)
	assert.GreaterOrEqual(t, cam.Position[1], -1e-9)
}
