package globe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tushar-Jain07/portfolio/internal/scene"
)

var skills = []string{
	"React", "JavaScript", "TypeScript", "Node.js", "Python", "TailwindCSS",
	"GraphQL", "MongoDB", "PostgreSQL", "Docker", "Framer Motion",
}

var viewport = scene.Viewport{Width: 800, Height: 500}

func still(s []string) *Renderer {
	return New(Options{Skills: s, Radius: 15})
}

func TestOneLabelPerSkill(t *testing.T) {
	for _, n := range []int{0, 1, 5, len(skills)} {
		r := still(skills[:n])
		require.NoError(t, r.Mount(viewport))
		assert.Equal(t, n, r.Primitives())
		assert.Len(t, r.Snapshot().Objects, n)
	}
}

func TestLabelsSitOnSphereFacingCentre(t *testing.T) {
	r := still(skills)
	require.NoError(t, r.Mount(viewport))

	for i, m := range r.labels {
		centre := m.Position
		centre[0] += 0.5 * LabelWidth(m.Label)
		assert.InDelta(t, 15, centre.Len(), 1e-9, m.Label)
		want := Place(i, len(skills), 15)
		for k := range want {
			assert.InDelta(t, want[k], centre[k], 1e-9, m.Label)
		}

		z := m.Rotation.Matrix().Mul3x1(scene.V3(0, 0, 1))
		facing := scene.Vec3{}.Sub(m.Position).Normalize()
		assert.InDelta(t, 1, z.Dot(facing), 1e-6, m.Label)
		assert.Equal(t, scene.Blue, m.Color)
	}
}

func TestEmptyViewportSkipsSetup(t *testing.T) {
	r := still(skills)
	require.NoError(t, r.Mount(scene.Viewport{Width: 0, Height: 400}))
	assert.Zero(t, r.Primitives())
	r.Step(scene.Frame{Index: 1})
	assert.Empty(t, r.Snapshot().Objects)
}

func frontLabel(r *Renderer) int {
	best := 0
	for i, m := range r.labels {
		if m.Position[2] > r.labels[best].Position[2] {
			best = i
		}
	}
	return best
}

func TestHoverSwapsAndResetsColour(t *testing.T) {
	r := still(skills)
	require.NoError(t, r.Mount(viewport))

	k := frontLabel(r)
	ndc, ok := r.cam.Project(r.labels[k].Position)
	require.True(t, ok)

	r.Pointer(ndc)
	r.Step(scene.Frame{Index: 1})
	st := r.Snapshot()
	require.Equal(t, k, st.Hovered)
	assert.Equal(t, scene.LightBlue, st.Objects[k].Color)
	assert.Equal(t, scene.EmissiveHover, st.Objects[k].Emissive)

	r.Pointer(scene.Vec2{0.99, 0.99})
	r.Step(scene.Frame{Index: 2})
	st = r.Snapshot()
	assert.Equal(t, -1, st.Hovered)
	assert.Equal(t, scene.Blue, st.Objects[k].Color)
	assert.Equal(t, scene.EmissiveIdle, st.Objects[k].Emissive)
}

func TestDragAndAutoRotateMoveCamera(t *testing.T) {
	r := still(skills)
	require.NoError(t, r.Mount(viewport))
	r.Step(scene.Frame{Index: 1})
	before := r.Snapshot().Camera.Position

	r.Drag(scene.Vec2{0.3, 0})
	for i := 0; i < 20; i++ {
		r.Step(scene.Frame{Index: uint64(i + 2)})
	}
	after := r.Snapshot().Camera.Position
	assert.NotEqual(t, before, after)
	assert.InDelta(t, 30, after.Len(), 1e-6)

	auto := New(DefaultOptions(skills))
	require.NoError(t, auto.Mount(viewport))
	auto.Step(scene.Frame{Index: 1})
	p1 := auto.Snapshot().Camera.Position
	auto.Step(scene.Frame{Index: 2})
	assert.NotEqual(t, p1, auto.Snapshot().Camera.Position)
}

func TestDisposeIsIdempotent(t *testing.T) {
	r := still(skills)
	require.NoError(t, r.Mount(viewport))
	r.Dispose()
	r.Dispose()
	assert.Equal(t, int64(len(skills)), r.Released())
	assert.Zero(t, r.Primitives())
	assert.Empty(t, r.Snapshot().Objects)
	r.Step(scene.Frame{Index: 1})
}
