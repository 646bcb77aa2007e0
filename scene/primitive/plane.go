package primitive

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// An infinite plane. Planes cannot be bounded and are therefore never placed
// inside a BVH.
type Plane struct {
	Point    types.Vec3
	Normal   types.Vec3
	Material scene.Material
}

func NewPlane(point, normal types.Vec3, mat scene.Material) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize(), Material: mat}
}

func (p *Plane) Hit(ray types.Ray, tMin, tMax float64, _ *rand.Rand) (scene.HitRecord, bool) {
	denom := ray.Dir.Dot(p.Normal)
	if math.Abs(denom) < 1e-12 {
		return scene.HitRecord{}, false
	}

	t := p.Point.Sub(ray.Origin).Dot(p.Normal) / denom
	if t < tMin || t > tMax {
		return scene.HitRecord{}, false
	}

	point := ray.At(t)
	uvw := types.NewONB(p.Normal)
	local := point.Sub(p.Point)
	u := local.Dot(uvw.U)
	v := local.Dot(uvw.V)
	return scene.NewHitRecord(ray, t, point, p.Normal, u-math.Floor(u), v-math.Floor(v), p.Material), true
}

func (p *Plane) BBox(_, _ float64) (scene.AABB, bool) {
	return scene.AABB{}, false
}

func (p *Plane) PdfValue(_, _ types.Vec3, _ *rand.Rand) float64 {
	return 0
}

func (p *Plane) Random(_ types.Vec3, _ *rand.Rand) types.Vec3 {
	return types.Vec3{1, 0, 0}
}
