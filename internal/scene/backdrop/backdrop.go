// Package backdrop is the hero background: a drifting star field around
// three wireframe solids.
package backdrop

import (
	"math/rand/v2"

	"github.com/Tushar-Jain07/portfolio/internal/scene"
)

// Options configures the field.
type Options struct {
	Particles int
	Spread    float64
	Seed      uint64
}

func DefaultOptions() Options {
	return Options{Particles: 5000, Spread: 50, Seed: 7}
}

// Renderer is the backdrop scene.
type Renderer struct {
	opts Options

	cam scene.Camera
	res scene.Resources

	points   *scene.Buffer
	scales   *scene.Buffer
	spin     scene.Euler
	solids   []*scene.Mesh
	pointer  scene.Vec2
	parallax bool
	mounted  bool
}

func New(opts Options) *Renderer {
	if opts.Particles < 0 {
		opts.Particles = 0
	}
	if opts.Spread <= 0 {
		opts.Spread = 50
	}
	return &Renderer{opts: opts}
}

func (r *Renderer) Kind() scene.Kind { return scene.KindBackdrop }

func (r *Renderer) Mount(vp scene.Viewport) error {
	if vp.Empty() {
		return nil
	}
	r.cam = scene.NewCamera(75, vp.Aspect(), 0.1, 1000, scene.V3(0, 0, 15))

	rng := rand.New(rand.NewPCG(r.opts.Seed, r.opts.Seed+1))
	pos := make([]float32, r.opts.Particles*3)
	for i := range pos {
		pos[i] = float32((rng.Float64() - 0.5) * r.opts.Spread)
	}
	scl := make([]float32, r.opts.Particles)
	for i := range scl {
		scl[i] = rng.Float32()
	}
	r.points = r.res.NewBuffer("position", 3, pos)
	r.scales = r.res.NewBuffer("scale", 1, scl)

	torus := scene.NewMesh("torus", scene.ShapeTorus, scene.V3(7, 7, 1), scene.Blue, 3, 0.5, 16, 100)
	ico := scene.NewMesh("icosahedron", scene.ShapeIcosahedron, scene.V3(4, 4, 4), scene.Violet, 2, 0)
	ico.Position = scene.V3(-6, -3, 3)
	octa := scene.NewMesh("octahedron", scene.ShapeOctahedron, scene.V3(3, 3, 3), scene.LightBlue, 1.5, 0)
	octa.Position = scene.V3(6, 3, -3)
	for _, m := range []*scene.Mesh{torus, ico, octa} {
		m.Wireframe = true
		r.solids = append(r.solids, r.res.Track(m))
	}
	r.mounted = true
	return nil
}

// Primitives counts the star points plus the three solids.
func (r *Renderer) Primitives() int {
	if r.res.Disposed() {
		return 0
	}
	return r.points.Count() + len(r.solids)
}

// Step turns everything by elapsed time and eases the camera toward the pointer.
func (r *Renderer) Step(f scene.Frame) {
	if !r.mounted || r.res.Disposed() {
		return
	}
	t := f.Elapsed.Seconds()

	r.solids[0].Rotation.X = t * 0.2
	r.solids[0].Rotation.Y = t * 0.3
	r.solids[1].Rotation.X = t * -0.3
	r.solids[1].Rotation.Y = t * -0.2
	r.solids[2].Rotation.X = t * 0.4
	r.solids[2].Rotation.Z = t * 0.2

	r.spin.X = t * 0.05
	r.spin.Y = t * 0.03

	if r.parallax {
		r.cam.Position[0] += (r.pointer.X()*0.5 - r.cam.Position[0]) * 0.05
		r.cam.Position[1] += (r.pointer.Y()*0.5 - r.cam.Position[1]) * 0.05
	}
}

func (r *Renderer) Snapshot() scene.FrameState {
	st := scene.FrameState{Kind: r.Kind(), Camera: r.cam, Hovered: -1, Active: -1}
	if !r.mounted || r.res.Disposed() {
		return st
	}
	st.Points = &scene.PointsState{Count: r.points.Count(), Rotation: r.spin}
	st.Objects = make([]scene.ObjectState, len(r.solids))
	for i, m := range r.solids {
		st.Objects[i] = m.State()
	}
	return st
}

func (r *Renderer) Geometry() scene.Geometry {
	if !r.mounted || r.res.Disposed() {
		return scene.Geometry{}
	}
	return scene.Geometry{
		Positions: append([]float32(nil), r.points.Data...),
		Sizes:     append([]float32(nil), r.scales.Data...),
		PointSize: 0.1,
	}
}

// Pointer enables camera parallax from the first move on.
func (r *Renderer) Pointer(ndc scene.Vec2) {
	r.pointer = ndc
	r.parallax = true
}

func (r *Renderer) Click() {}

func (r *Renderer) Resize(vp scene.Viewport) { r.cam.SetViewport(vp) }

func (r *Renderer) Dispose() { r.res.Dispose() }

// Released reports how many buffers and meshes teardown freed.
func (r *Renderer) Released() int64 { return r.res.Released() }
