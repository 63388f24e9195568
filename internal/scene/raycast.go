package scene

import (
	"math"
	"sort"
)

// Ray is a half-line from Origin along unit Dir.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// Hit is one intersection result.
type Hit struct {
	Index    int
	Distance float64
	Point    Vec3
}

// Raycaster tests pointer rays against scene primitives.
type Raycaster struct {
	Ray            Ray
	Near, Far      float64
	PointThreshold float64
}

// NewRaycaster matches the usual library defaults: points within 1 unit of
// the ray count as hits.
func NewRaycaster() *Raycaster {
	return &Raycaster{Far: math.Inf(1), PointThreshold: 1}
}

// SetFromCamera aims the ray from the camera through ndc.
func (rc *Raycaster) SetFromCamera(ndc Vec2, cam Camera) {
	far := cam.Unproject(ndc, 1)
	rc.Ray = Ray{Origin: cam.Position, Dir: Unit(far.Sub(cam.Position))}
}

func (rc *Raycaster) inRange(d float64) bool {
	return d >= rc.Near && d <= rc.Far
}

// IntersectPoints tests a flat xyz position buffer transformed by rot and
// then offset. Hits are sorted nearest first.
func (rc *Raycaster) IntersectPoints(positions []float32, rot Mat3, offset Vec3) []Hit {
	threshSq := rc.PointThreshold * rc.PointThreshold
	var hits []Hit
	for i := 0; i+2 < len(positions); i += 3 {
		p := rot.Mul3x1(V3(float64(positions[i]), float64(positions[i+1]), float64(positions[i+2]))).Add(offset)
		t := p.Sub(rc.Ray.Origin).Dot(rc.Ray.Dir)
		if t < 0 {
			continue
		}
		closest := rc.Ray.At(t)
		if closest.Sub(p).Dot(closest.Sub(p)) > threshSq {
			continue
		}
		d := closest.Sub(rc.Ray.Origin).Len()
		if !rc.inRange(d) {
			continue
		}
		hits = append(hits, Hit{Index: i / 3, Distance: d, Point: closest})
	}
	sortHits(hits)
	return hits
}

// IntersectSphere returns the nearest distance to a sphere surface.
func (rc *Raycaster) IntersectSphere(center Vec3, radius float64) (float64, bool) {
	oc := rc.Ray.Origin.Sub(center)
	b := oc.Dot(rc.Ray.Dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	s := math.Sqrt(disc)
	t := -b - s
	if t < 0 {
		t = -b + s
	}
	if t < 0 || !rc.inRange(t) {
		return 0, false
	}
	return t, true
}

// IntersectMeshes tests each mesh's oriented bounding box. Hits carry the
// mesh index and are sorted nearest first.
func (rc *Raycaster) IntersectMeshes(meshes []*Mesh) []Hit {
	var hits []Hit
	for i, m := range meshes {
		if m == nil {
			continue
		}
		if t, ok := rc.intersectBox(m); ok {
			hits = append(hits, Hit{Index: i, Distance: t, Point: rc.Ray.At(t)})
		}
	}
	sortHits(hits)
	return hits
}

func (rc *Raycaster) intersectBox(m *Mesh) (float64, bool) {
	inv := m.Rotation.Matrix().Transpose()
	scale := m.Scale
	if scale == (Vec3{}) {
		scale = V3(1, 1, 1)
	}
	half := Vec3{}
	ext := m.Extent()
	for i := range half {
		half[i] = ext[i] * 0.5 * scale[i]
	}

	o := inv.Mul3x1(rc.Ray.Origin.Sub(m.Position))
	d := inv.Mul3x1(rc.Ray.Dir)

	tmin, tmax := math.Inf(-1), math.Inf(1)
	for i := range half {
		origin, dir, h := o[i], d[i], half[i]
		if math.Abs(dir) < 1e-12 {
			if origin < -h || origin > h {
				return 0, false
			}
			continue
		}
		t1 := (-h - origin) / dir
		t2 := (h - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	t := tmin
	if t < 0 {
		t = tmax
	}
	if !rc.inRange(t) {
		return 0, false
	}
	return t, true
}

func sortHits(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
}
