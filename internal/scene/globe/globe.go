// Package globe places skill labels on a rotating sphere.
package globe

import (
	"math"

	"github.com/Tushar-Jain07/portfolio/internal/scene"
)

const (
	labelHeight = 1.0
	labelDepth  = 0.2
	// Average advance of a glyph at size 1 in the label font.
	glyphAdvance = 0.6
)

// Options configures the globe.
type Options struct {
	Skills []string
	Radius float64
	// AutoRotate is radians per frame when the globe is not being dragged.
	AutoRotate float64
}

func DefaultOptions(skills []string) Options {
	return Options{Skills: skills, Radius: 15, AutoRotate: 2 * math.Pi / 60 / 60 * 0.5}
}

// Renderer is the skills globe scene.
type Renderer struct {
	opts Options

	cam      scene.Camera
	controls *scene.OrbitControls
	rc       *scene.Raycaster
	res      scene.Resources

	labels  []*scene.Mesh
	pointer scene.Vec2
	hovered int
	mounted bool
}

func New(opts Options) *Renderer {
	if opts.Radius <= 0 {
		opts.Radius = 15
	}
	return &Renderer{opts: opts, hovered: -1}
}

func (r *Renderer) Kind() scene.Kind { return scene.KindGlobe }

// LabelWidth estimates the rendered width of a label at size 1.
func LabelWidth(label string) float64 {
	return glyphAdvance * float64(len([]rune(label)))
}

// Place returns the position of label i of n on a sphere of radius, before
// the horizontal centring offset.
func Place(i, n int, radius float64) scene.Vec3 {
	phi := math.Acos(-1 + 2*float64(i)/float64(n))
	theta := math.Sqrt(float64(n)*math.Pi) * phi
	return scene.Vec3{
		radius * math.Sin(phi) * math.Cos(theta),
		radius * math.Cos(phi),
		radius * math.Sin(phi) * math.Sin(theta),
	}
}

// Mount creates one label mesh per skill, facing the centre.
func (r *Renderer) Mount(vp scene.Viewport) error {
	if vp.Empty() {
		return nil
	}
	r.cam = scene.NewCamera(75, vp.Aspect(), 0.1, 1000, scene.V3(0, 0, 30))
	r.controls = scene.NewOrbitControls(r.cam, scene.Vec3{})
	r.controls.Damping = 0.05
	r.controls.RotateSpeed = 0.5
	r.controls.AutoRotate = r.opts.AutoRotate
	r.rc = scene.NewRaycaster()

	n := len(r.opts.Skills)
	r.labels = make([]*scene.Mesh, 0, n)
	for i, skill := range r.opts.Skills {
		width := LabelWidth(skill)
		m := scene.NewMesh(skill, scene.ShapeText, scene.V3(width, labelHeight, labelDepth), scene.Blue, 1, labelDepth)
		m.Position = Place(i, n, r.opts.Radius)
		m.Position[0] += -0.5 * width
		m.LookAt(scene.Vec3{})
		r.labels = append(r.labels, r.res.Track(m))
	}
	r.mounted = true
	return nil
}

func (r *Renderer) Primitives() int {
	if r.res.Disposed() {
		return 0
	}
	return len(r.labels)
}

// Step updates the orbit and swaps hover colours.
func (r *Renderer) Step(_ scene.Frame) {
	if !r.mounted || r.res.Disposed() {
		return
	}
	r.controls.Update(&r.cam)
	if len(r.labels) == 0 {
		return
	}

	r.rc.SetFromCamera(r.pointer, r.cam)
	hits := r.rc.IntersectMeshes(r.labels)

	if r.hovered >= 0 && (len(hits) == 0 || hits[0].Index != r.hovered) {
		prev := r.labels[r.hovered]
		prev.Color = prev.BaseColor
		prev.Emissive = scene.EmissiveIdle
		r.hovered = -1
	}
	if len(hits) > 0 && hits[0].Index != r.hovered {
		r.hovered = hits[0].Index
		cur := r.labels[r.hovered]
		cur.Color = scene.LightBlue
		cur.Emissive = scene.EmissiveHover
	}
}

func (r *Renderer) Snapshot() scene.FrameState {
	st := scene.FrameState{Kind: r.Kind(), Camera: r.cam, Hovered: -1, Active: -1}
	if !r.mounted || r.res.Disposed() {
		return st
	}
	st.Hovered = r.hovered
	st.Objects = make([]scene.ObjectState, len(r.labels))
	for i, m := range r.labels {
		st.Objects[i] = m.State()
	}
	return st
}

func (r *Renderer) Geometry() scene.Geometry { return scene.Geometry{} }

func (r *Renderer) Pointer(ndc scene.Vec2) { r.pointer = ndc }

// Drag rotates the globe.
func (r *Renderer) Drag(delta scene.Vec2) {
	if r.controls != nil {
		r.controls.Rotate(delta)
	}
}

func (r *Renderer) Click() {}

func (r *Renderer) Resize(vp scene.Viewport) { r.cam.SetViewport(vp) }

func (r *Renderer) Dispose() {
	r.res.Dispose()
	r.hovered = -1
}

// Released reports how many meshes teardown freed.
func (r *Renderer) Released() int64 { return r.res.Released() }
