// Package showcase arranges project cubes on a ring with hover and select.
package showcase

import (
	"math"

	"github.com/Tushar-Jain07/portfolio/internal/scene"
)

const (
	cubeSize   = 3.0
	hoverScale = 1.1
)

// Item is what a cube stands for.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// Options configures the ring.
type Options struct {
	Items  []Item
	Radius float64
}

// Renderer is the project showcase scene.
type Renderer struct {
	opts Options

	cam      scene.Camera
	controls *scene.OrbitControls
	rc       *scene.Raycaster
	res      scene.Resources

	cubes   []*scene.Mesh
	pointer scene.Vec2
	hovered int
	active  int
	mounted bool
}

func New(opts Options) *Renderer {
	if opts.Radius <= 0 {
		opts.Radius = 10
	}
	return &Renderer{opts: opts, hovered: -1, active: -1}
}

func (r *Renderer) Kind() scene.Kind { return scene.KindShowcase }

// RingPosition is cube i of n on a horizontal circle.
func RingPosition(i, n int, radius float64) scene.Vec3 {
	angle := float64(i) / float64(n) * math.Pi * 2
	return scene.V3(radius*math.Cos(angle), 0, radius*math.Sin(angle))
}

// Mount builds one cube per item.
func (r *Renderer) Mount(vp scene.Viewport) error {
	if vp.Empty() {
		return nil
	}
	r.cam = scene.NewCamera(60, vp.Aspect(), 0.1, 100, scene.V3(0, 0, 15))
	r.controls = scene.NewOrbitControls(r.cam, scene.Vec3{})
	r.controls.Damping = 0.05
	r.controls.MaxPolar = math.Pi / 2
	r.controls.MinDistance = 5
	r.controls.MaxDistance = 30
	r.rc = scene.NewRaycaster()

	n := len(r.opts.Items)
	r.cubes = make([]*scene.Mesh, 0, n)
	for i, it := range r.opts.Items {
		m := scene.NewMesh(it.Title, scene.ShapeBox, scene.V3(cubeSize, cubeSize, cubeSize), scene.Blue, cubeSize, cubeSize, cubeSize)
		m.Position = RingPosition(i, n, r.opts.Radius)
		m.LookAt(scene.Vec3{})
		r.cubes = append(r.cubes, r.res.Track(m))
	}
	r.mounted = true
	return nil
}

func (r *Renderer) Primitives() int {
	if r.res.Disposed() {
		return 0
	}
	return len(r.cubes)
}

// Step runs hover first, then spins and bobs the cubes.
func (r *Renderer) Step(f scene.Frame) {
	if !r.mounted || r.res.Disposed() {
		return
	}
	r.controls.Update(&r.cam)

	if len(r.cubes) > 0 {
		r.rc.SetFromCamera(r.pointer, r.cam)
		hits := r.rc.IntersectMeshes(r.cubes)

		for i, m := range r.cubes {
			if i == r.active {
				continue
			}
			m.Color = m.BaseColor
			m.Emissive = scene.EmissiveIdle
			m.SetUniformScale(1)
		}
		r.hovered = -1
		if len(hits) > 0 {
			r.hovered = hits[0].Index
			m := r.cubes[r.hovered]
			m.Color = scene.LightBlue
			m.Emissive = scene.EmissiveHover
			m.SetUniformScale(hoverScale)
		}
	}

	t := f.Elapsed.Seconds()
	for i, m := range r.cubes {
		m.Rotation.Y += 0.01
		m.Rotation.X += 0.005
		m.Position[1] = math.Sin(t+float64(i)) * 0.5
	}
}

func (r *Renderer) Snapshot() scene.FrameState {
	st := scene.FrameState{Kind: r.Kind(), Camera: r.cam, Hovered: -1, Active: -1}
	if !r.mounted || r.res.Disposed() {
		return st
	}
	st.Hovered = r.hovered
	st.Active = r.active
	st.Objects = make([]scene.ObjectState, len(r.cubes))
	for i, m := range r.cubes {
		st.Objects[i] = m.State()
	}
	if it, ok := r.Active(); ok {
		st.Selected = &scene.Selection{Title: it.Title, Description: it.Description, URL: it.URL}
	}
	return st
}

func (r *Renderer) Geometry() scene.Geometry {
	bg := scene.Night
	return scene.Geometry{
		Background: &bg,
		Fog:        &scene.Fog{Color: scene.Night, Near: 10, Far: 50},
	}
}

func (r *Renderer) Pointer(ndc scene.Vec2) { r.pointer = ndc }

// Drag orbits the camera.
func (r *Renderer) Drag(delta scene.Vec2) {
	if r.controls != nil {
		r.controls.Rotate(delta)
	}
}

// Click selects the hovered cube, if any.
func (r *Renderer) Click() {
	if r.hovered >= 0 {
		r.active = r.hovered
	}
}

// Deselect closes the details panel.
func (r *Renderer) Deselect() { r.active = -1 }

// Active returns the selected item.
func (r *Renderer) Active() (Item, bool) {
	if r.active < 0 || r.active >= len(r.opts.Items) {
		return Item{}, false
	}
	return r.opts.Items[r.active], true
}

func (r *Renderer) Resize(vp scene.Viewport) { r.cam.SetViewport(vp) }

func (r *Renderer) Dispose() {
	r.res.Dispose()
	r.hovered, r.active = -1, -1
}

// Released reports how many meshes teardown freed.
func (r *Renderer) Released() int64 { return r.res.Released() }
