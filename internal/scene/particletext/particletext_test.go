package particletext

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tushar-Jain07/portfolio/internal/scene"
)

var viewport = scene.Viewport{Width: 1600, Height: 900}

func mounted(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r := New(opts)
	require.NoError(t, r.Mount(viewport))
	return r
}

func TestRasterizeCentersText(t *testing.T) {
	img := Rasterize("TUSHAR JAIN", 70)
	pts := Sample(img, 4, 128)
	require.NotEmpty(t, pts)

	minX, maxX := CanvasWidth, 0
	for _, p := range pts {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
	}
	mid := (minX + maxX) / 2
	assert.InDelta(t, CanvasWidth/2, mid, 16)
}

func TestRasterizeEmpty(t *testing.T) {
	assert.Empty(t, Sample(Rasterize("", 70), 4, 128))
	assert.Empty(t, Sample(Rasterize("HI", 0), 4, 128))
}

func TestRasterizeShrinksLongText(t *testing.T) {
	long := "THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG AGAIN"
	pts := Sample(Rasterize(long, 70), 4, 128)
	require.NotEmpty(t, pts)
	for _, p := range pts {
		assert.GreaterOrEqual(t, p.X, 0)
		assert.Less(t, p.X, CanvasWidth)
	}
}

func TestMountBuildsOneParticlePerLitSample(t *testing.T) {
	r := mounted(t, DefaultOptions())
	want := len(Sample(Rasterize("TUSHAR JAIN", 70), sampleStep, sampleThreshold))
	assert.Equal(t, want, r.Primitives())

	g := r.Geometry()
	require.Len(t, g.Positions, want*3)
	require.Len(t, g.Colors, want*3)
	require.Len(t, g.Sizes, want)
	for i := 0; i < want; i++ {
		x, y, z := g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2]
		assert.LessOrEqual(t, math.Abs(float64(x)), 25.6)
		assert.LessOrEqual(t, math.Abs(float64(y)), 6.4)
		assert.Zero(t, z)
		assert.GreaterOrEqual(t, g.Sizes[i], float32(1))
		assert.Less(t, g.Sizes[i], float32(3))
	}
	assert.Equal(t, scene.Blue.R, g.Colors[0])
}

func TestEmptyViewportSkipsSetup(t *testing.T) {
	r := New(DefaultOptions())
	require.NoError(t, r.Mount(scene.Viewport{}))
	assert.Zero(t, r.Primitives())

	r.Step(scene.Frame{Index: 1})
	st := r.Snapshot()
	assert.Nil(t, st.Points)
	assert.Equal(t, -1, st.Hovered)
	r.Dispose()
}

func TestStepSwaysAndWaves(t *testing.T) {
	r := mounted(t, DefaultOptions())
	r.Pointer(scene.Vec2{0.99, 0.99})
	r.Step(scene.Frame{Index: 1})

	st := r.Snapshot()
	require.NotNil(t, st.Points)
	assert.InDelta(t, 0.01, st.Points.Phase, 1e-12)
	assert.InDelta(t, math.Sin(0.005)*0.2, st.Points.Rotation.Y, 1e-12)
	assert.InDelta(t, math.Cos(0.003)*0.1, st.Points.Rotation.X, 1e-12)
	assert.Empty(t, st.Points.Highlighted)

	for _, i := range []int{0, 3, 30} {
		assert.InDelta(t, WaveZ(i, 0.01), float64(r.positions.Data[i+2]), 1e-6)
	}
}

func TestHoverHighlightsNearestParticle(t *testing.T) {
	r := mounted(t, DefaultOptions())

	// Aim at a particle in the middle of the text.
	target := r.Primitives() / 2
	x, y, _ := r.positions.Get3(target)
	ndc, ok := r.cam.Project(scene.V3(float64(x), float64(y), 0))
	require.True(t, ok)

	r.Pointer(ndc)
	r.Step(scene.Frame{Index: 1})

	st := r.Snapshot()
	require.NotEqual(t, -1, st.Hovered)
	require.Contains(t, st.Points.Highlighted, st.Hovered)

	hx, hy, _ := r.positions.Get3(st.Hovered)
	assert.Less(t, math.Hypot(float64(hx-x), float64(hy-y)), 1.5)

	g := r.Geometry()
	assert.Equal(t, scene.LightBlue.R, g.Colors[st.Hovered*3])
	assert.Equal(t, scene.LightBlue.B, g.Colors[st.Hovered*3+2])

	// Moving away clears the hover but the highlight colour stays.
	r.Pointer(scene.Vec2{0.99, 0.99})
	r.Step(scene.Frame{Index: 2})
	st2 := r.Snapshot()
	assert.Equal(t, -1, st2.Hovered)
	assert.Contains(t, st2.Points.Highlighted, st.Hovered)
}

func TestDisposeIsIdempotent(t *testing.T) {
	r := mounted(t, DefaultOptions())
	r.Dispose()
	r.Dispose()
	assert.Equal(t, int64(3), r.Released())
	assert.Zero(t, r.Primitives())

	r.Step(scene.Frame{Index: 1})
	assert.Nil(t, r.Snapshot().Points)
	assert.Empty(t, r.Geometry().Positions)
}

func TestResizeUpdatesAspect(t *testing.T) {
	r := mounted(t, DefaultOptions())
	r.Resize(scene.Viewport{Width: 800, Height: 800})
	assert.InDelta(t, 1.0, r.Snapshot().Camera.Aspect, 1e-12)
}
