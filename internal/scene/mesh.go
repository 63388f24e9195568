package scene

// Shape names the geometry a mesh stands for. The browser builds the
// matching geometry from Dims.
type Shape string

const (
	ShapeBox         Shape = "box"
	ShapeText        Shape = "text"
	ShapeTorus       Shape = "torus"
	ShapeIcosahedron Shape = "icosahedron"
	ShapeOctahedron  Shape = "octahedron"
)

// Mesh is a transformed primitive with a standard material.
type Mesh struct {
	Label string
	Shape Shape
	Dims  []float64

	// Size is the bounding box used for hit-testing.
	Size Vec3

	Position Vec3
	Rotation Euler
	Scale    Vec3

	BaseColor Color
	Color     Color
	Emissive  Color
	Wireframe bool

	disposed bool
}

// NewMesh returns a unit-scale mesh with its colour set to base.
func NewMesh(label string, shape Shape, size Vec3, base Color, dims ...float64) *Mesh {
	return &Mesh{
		Label:     label,
		Shape:     shape,
		Dims:      dims,
		Size:      size,
		Scale:     V3(1, 1, 1),
		BaseColor: base,
		Color:     base,
		Emissive:  EmissiveIdle,
	}
}

// Extent is the unscaled bounding box size.
func (m *Mesh) Extent() Vec3 { return m.Size }

// LookAt turns the mesh to face target.
func (m *Mesh) LookAt(target Vec3) {
	m.Rotation = LookAt(m.Position, target, V3(0, 1, 0))
}

// Disposed reports whether the owning scene released the mesh.
func (m *Mesh) Disposed() bool { return m.disposed }

// SetUniformScale sets the same scale on every axis.
func (m *Mesh) SetUniformScale(s float64) { m.Scale = V3(s, s, s) }

// State snapshots the mesh for the browser.
func (m *Mesh) State() ObjectState {
	return ObjectState{
		Label:     m.Label,
		Shape:     m.Shape,
		Dims:      m.Dims,
		Position:  m.Position,
		Rotation:  m.Rotation,
		Scale:     m.Scale,
		Color:     m.Color,
		Emissive:  m.Emissive,
		Wireframe: m.Wireframe,
	}
}
