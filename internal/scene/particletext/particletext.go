// Package particletext renders a string as a waving cloud of points.
package particletext

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/Tushar-Jain07/portfolio/internal/scene"
)

const (
	sampleStep      = 4
	sampleThreshold = 128
	unitsPerPixel   = 0.05
	pointSize       = 0.5
)

// Options configures the text and colours.
type Options struct {
	Text       string
	Size       int
	Color      scene.Color
	HoverColor scene.Color
	Seed       uint64
}

// DefaultOptions mirrors the hero section.
func DefaultOptions() Options {
	return Options{
		Text:       "TUSHAR JAIN",
		Size:       70,
		Color:      scene.Blue,
		HoverColor: scene.LightBlue,
		Seed:       1,
	}
}

// Renderer is the particle text scene.
type Renderer struct {
	opts Options

	cam scene.Camera
	rc  *scene.Raycaster
	res scene.Resources

	positions *scene.Buffer
	colors    *scene.Buffer
	sizes     *scene.Buffer

	rotation    scene.Euler
	phase       float64
	pointer     scene.Vec2
	highlighted map[int]struct{}
	hovered     int
	mounted     bool
}

func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Size <= 0 {
		opts.Size = def.Size
	}
	if opts.Color == (scene.Color{}) {
		opts.Color = def.Color
	}
	if opts.HoverColor == (scene.Color{}) {
		opts.HoverColor = def.HoverColor
	}
	return &Renderer{opts: opts, highlighted: make(map[int]struct{}), hovered: -1}
}

func (r *Renderer) Kind() scene.Kind { return scene.KindParticleText }

// Mount rasterizes the text and builds one particle per lit sample.
func (r *Renderer) Mount(vp scene.Viewport) error {
	if vp.Empty() {
		return nil
	}
	r.cam = scene.NewCamera(75, vp.Aspect(), 0.1, 1000, scene.V3(0, 0, 20))
	r.rc = scene.NewRaycaster()

	pts := Sample(Rasterize(r.opts.Text, r.opts.Size), sampleStep, sampleThreshold)
	rng := rand.New(rand.NewPCG(r.opts.Seed, r.opts.Seed^0x9e3779b97f4a7c15))

	pos := make([]float32, 0, len(pts)*3)
	col := make([]float32, 0, len(pts)*3)
	siz := make([]float32, 0, len(pts))
	for _, p := range pts {
		pos = append(pos,
			float32(float64(p.X-CanvasWidth/2)*unitsPerPixel),
			float32(float64(CanvasHeight/2-p.Y)*unitsPerPixel),
			0)
		col = append(col, r.opts.Color.R, r.opts.Color.G, r.opts.Color.B)
		siz = append(siz, float32(rng.Float64()*2+1))
	}
	r.positions = r.res.NewBuffer("position", 3, pos)
	r.colors = r.res.NewBuffer("color", 3, col)
	r.sizes = r.res.NewBuffer("size", 1, siz)
	r.mounted = true
	return nil
}

func (r *Renderer) Primitives() int { return r.positions.Count() }

// Step advances the wave and sway, then highlights the point under the pointer.
// Highlighted points keep the hover colour.
func (r *Renderer) Step(_ scene.Frame) {
	if !r.mounted || r.res.Disposed() {
		return
	}
	r.phase += 0.01
	r.rotation.Y = math.Sin(r.phase*0.5) * 0.2
	r.rotation.X = math.Cos(r.phase*0.3) * 0.1

	data := r.positions.Data
	for i := 0; i+2 < len(data); i += 3 {
		data[i+2] = float32(WaveZ(i, r.phase))
	}
	r.positions.NeedsUpdate = true

	r.rc.SetFromCamera(r.pointer, r.cam)
	hits := r.rc.IntersectPoints(data, r.rotation.Matrix(), scene.Vec3{})
	r.hovered = -1
	if len(hits) > 0 {
		idx := hits[0].Index
		r.colors.SetColor(idx, r.opts.HoverColor)
		r.highlighted[idx] = struct{}{}
		r.hovered = idx
	}
}

// WaveZ is the depth offset of the vertex whose x component sits at flat
// index i.
func WaveZ(i int, phase float64) float64 {
	return math.Sin((float64(i)+phase*10)*0.1) * 0.5
}

func (r *Renderer) Snapshot() scene.FrameState {
	st := scene.FrameState{
		Kind:    r.Kind(),
		Camera:  r.cam,
		Hovered: -1,
		Active:  -1,
	}
	if !r.mounted || r.res.Disposed() {
		return st
	}
	hl := make([]int, 0, len(r.highlighted))
	for i := range r.highlighted {
		hl = append(hl, i)
	}
	sort.Ints(hl)
	st.Points = &scene.PointsState{
		Count:       r.positions.Count(),
		Rotation:    r.rotation,
		Phase:       r.phase,
		Highlighted: hl,
	}
	st.Hovered = r.hovered
	return st
}

func (r *Renderer) Geometry() scene.Geometry {
	if !r.mounted || r.res.Disposed() {
		return scene.Geometry{}
	}
	return scene.Geometry{
		Positions: append([]float32(nil), r.positions.Data...),
		Colors:    append([]float32(nil), r.colors.Data...),
		Sizes:     append([]float32(nil), r.sizes.Data...),
		PointSize: pointSize,
	}
}

func (r *Renderer) Pointer(ndc scene.Vec2) { r.pointer = ndc }

func (r *Renderer) Click() {}

func (r *Renderer) Resize(vp scene.Viewport) { r.cam.SetViewport(vp) }

func (r *Renderer) Dispose() {
	r.res.Dispose()
	r.highlighted = map[int]struct{}{}
}

// Released reports how many buffers teardown freed.
func (r *Renderer) Released() int64 { return r.res.Released() }
