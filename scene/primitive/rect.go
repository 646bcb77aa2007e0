package primitive

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// An axis-aligned rectangle lying on the plane Normal = K and spanning
// [A0, A1] x [B0, B1] along its two in-plane axes.
type Rect struct {
	// Indices of the two in-plane axes and of the axis the rect is
	// perpendicular to.
	AxisA, AxisB, AxisN int

	A0, A1 float64
	B0, B1 float64
	K      float64

	Material scene.Material
}

// Create a rectangle on the plane z = k.
func NewXYRect(x0, x1, y0, y1, k float64, mat scene.Material) *Rect {
	return &Rect{AxisA: 0, AxisB: 1, AxisN: 2, A0: x0, A1: x1, B0: y0, B1: y1, K: k, Material: mat}
}

// Create a rectangle on the plane y = k.
func NewXZRect(x0, x1, z0, z1, k float64, mat scene.Material) *Rect {
	return &Rect{AxisA: 0, AxisB: 2, AxisN: 1, A0: x0, A1: x1, B0: z0, B1: z1, K: k, Material: mat}
}

// Create a rectangle on the plane x = k.
func NewYZRect(y0, y1, z0, z1, k float64, mat scene.Material) *Rect {
	return &Rect{AxisA: 1, AxisB: 2, AxisN: 0, A0: y0, A1: y1, B0: z0, B1: z1, K: k, Material: mat}
}

func (r *Rect) Hit(ray types.Ray, tMin, tMax float64, _ *rand.Rand) (scene.HitRecord, bool) {
	if ray.Dir[r.AxisN] == 0 {
		return scene.HitRecord{}, false
	}

	t := (r.K - ray.Origin[r.AxisN]) / ray.Dir[r.AxisN]
	if t < tMin || t > tMax {
		return scene.HitRecord{}, false
	}

	a := ray.Origin[r.AxisA] + t*ray.Dir[r.AxisA]
	b := ray.Origin[r.AxisB] + t*ray.Dir[r.AxisB]
	if a < r.A0 || a > r.A1 || b < r.B0 || b > r.B1 {
		return scene.HitRecord{}, false
	}

	return scene.NewHitRecord(
		ray, t, ray.At(t), r.normal(),
		(a-r.A0)/(r.A1-r.A0), (b-r.B0)/(r.B1-r.B0),
		r.Material,
	), true
}

// Rects are padded along their normal axis so their boxes are never flat.
func (r *Rect) BBox(_, _ float64) (scene.AABB, bool) {
	var box scene.AABB
	box.Min[r.AxisA], box.Max[r.AxisA] = r.A0, r.A1
	box.Min[r.AxisB], box.Max[r.AxisB] = r.B0, r.B1
	box.Min[r.AxisN], box.Max[r.AxisN] = r.K-scene.PlanarPad, r.K+scene.PlanarPad
	return box, true
}

// Density of uniformly sampling a point on the rect area, converted to solid
// angle as seen from origin.
func (r *Rect) PdfValue(origin, dir types.Vec3, rng *rand.Rand) float64 {
	rec, hit := r.Hit(types.NewRay(origin, dir, 0), sampleEpsilon, math.Inf(1), rng)
	if !hit {
		return 0
	}

	area := (r.A1 - r.A0) * (r.B1 - r.B0)
	distSq := rec.T * rec.T * dir.LenSq()
	cosine := math.Abs(dir.Dot(r.normal()) / dir.Len())
	if cosine == 0 {
		return 0
	}
	return distSq / (cosine * area)
}

func (r *Rect) Random(origin types.Vec3, rng *rand.Rand) types.Vec3 {
	var p types.Vec3
	p[r.AxisA] = types.RandRange(rng, r.A0, r.A1)
	p[r.AxisB] = types.RandRange(rng, r.B0, r.B1)
	p[r.AxisN] = r.K
	return p.Sub(origin)
}

func (r *Rect) normal() types.Vec3 {
	var n types.Vec3
	n[r.AxisN] = 1
	return n
}
