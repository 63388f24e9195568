// Package scene holds the shared pieces of the decorative renderers: vector
// math, a perspective camera, orbit controls, ray hit-testing, tracked
// vertex buffers, and the per-frame Loop that drives a Renderer until
// teardown.
//
// Renderers are not safe for concurrent use; the Loop serializes every call.
package scene

import "time"

// Kind identifies a decorative renderer.
type Kind string

const (
	KindParticleText Kind = "particle-text"
	KindGlobe        Kind = "globe"
	KindShowcase     Kind = "showcase"
	KindBackdrop     Kind = "backdrop"
)

// Kinds lists every renderer kind in page order.
func Kinds() []Kind {
	return []Kind{KindParticleText, KindBackdrop, KindGlobe, KindShowcase}
}

// Viewport is the size of the container element, in CSS pixels.
type Viewport struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	PixelRatio float64 `json:"pixel_ratio,omitempty"`
}

// Empty means there is no container to render into.
func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

// Aspect is width over height, or 0 for an empty viewport.
func (v Viewport) Aspect() float64 {
	if v.Empty() {
		return 0
	}
	return float64(v.Width) / float64(v.Height)
}

// Frame is the clock handed to Step.
type Frame struct {
	Index   uint64
	Elapsed time.Duration
	Delta   time.Duration
}

// ObjectState is one mesh in a frame.
type ObjectState struct {
	Label     string    `json:"label,omitempty"`
	Shape     Shape     `json:"shape"`
	Dims      []float64 `json:"dims,omitempty"`
	Position  Vec3      `json:"position"`
	Rotation  Euler     `json:"rotation"`
	Scale     Vec3      `json:"scale"`
	Color     Color     `json:"color"`
	Emissive  Color     `json:"emissive"`
	Wireframe bool      `json:"wireframe,omitempty"`
}

// PointsState describes a point cloud in a frame. Vertex positions are sent
// once in Geometry; per-frame changes are the rotation, the wave phase and the
// highlighted indices.
type PointsState struct {
	Count       int     `json:"count"`
	Rotation    Euler   `json:"rotation"`
	Phase       float64 `json:"phase"`
	Highlighted []int   `json:"highlighted,omitempty"`
}

// Selection describes the item behind the active object.
type Selection struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// FrameState is what the browser receives each frame.
type FrameState struct {
	Kind    Kind          `json:"kind"`
	Frame   uint64        `json:"frame"`
	Elapsed float64       `json:"elapsed"`
	Camera  Camera        `json:"camera"`
	Objects []ObjectState `json:"objects,omitempty"`
	Points  *PointsState  `json:"points,omitempty"`
	Hovered int           `json:"hovered"`
	Active  int           `json:"active"`

	Selected *Selection `json:"selected,omitempty"`
}

// Geometry is the static data sent once at mount.
type Geometry struct {
	Positions  []float32 `json:"positions,omitempty"`
	Colors     []float32 `json:"colors,omitempty"`
	Sizes      []float32 `json:"sizes,omitempty"`
	PointSize  float64   `json:"point_size,omitempty"`
	Background *Color    `json:"background,omitempty"`
	Fog        *Fog      `json:"fog,omitempty"`
}

// Fog is linear scene fog.
type Fog struct {
	Color Color   `json:"color"`
	Near  float64 `json:"near"`
	Far   float64 `json:"far"`
}

// Renderer is one decorative scene.
type Renderer interface {
	Kind() Kind
	// Mount builds the camera and primitives. An empty viewport skips setup.
	Mount(vp Viewport) error
	// Step advances one frame: transform deltas, then the hover hit-test.
	Step(f Frame)
	Snapshot() FrameState
	Geometry() Geometry
	// Primitives is the number of visual primitives built at mount.
	Primitives() int
	Pointer(ndc Vec2)
	Click()
	Resize(vp Viewport)
	// Dispose releases every allocated resource. It is idempotent.
	Dispose()
}

// Dragger is implemented by renderers with orbit controls.
type Dragger interface {
	Drag(delta Vec2)
}

// Deselecter is implemented by renderers with a selectable item.
type Deselecter interface {
	Deselect()
}
