package primitive

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// A volume of constant density bounded by a convex primitive. Rays passing
// through the volume scatter after an exponentially distributed distance.
type ConstantMedium struct {
	Boundary      scene.Primitive
	PhaseFunction scene.Material

	negInvDensity float64
}

func NewConstantMedium(boundary scene.Primitive, density float64, phaseFunction scene.Material) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		PhaseFunction: phaseFunction,
		negInvDensity: -1.0 / density,
	}
}

func (m *ConstantMedium) Hit(ray types.Ray, tMin, tMax float64, rng *rand.Rand) (scene.HitRecord, bool) {
	rec1, ok := m.Boundary.Hit(ray, math.Inf(-1), math.Inf(1), rng)
	if !ok {
		return scene.HitRecord{}, false
	}
	rec2, ok := m.Boundary.Hit(ray, rec1.T+0.0001, math.Inf(1), rng)
	if !ok {
		return scene.HitRecord{}, false
	}

	if rec1.T < tMin {
		rec1.T = tMin
	}
	if rec2.T > tMax {
		rec2.T = tMax
	}
	if rec1.T >= rec2.T {
		return scene.HitRecord{}, false
	}
	if rec1.T < 0 {
		rec1.T = 0
	}

	rayLength := ray.Dir.Len()
	distanceInsideBoundary := (rec2.T - rec1.T) * rayLength
	hitDistance := m.negInvDensity * math.Log(rng.Float64())
	if hitDistance > distanceInsideBoundary {
		return scene.HitRecord{}, false
	}

	t := rec1.T + hitDistance/rayLength
	// Normal and face orientation are arbitrary inside a volume.
	return scene.HitRecord{
		T:         t,
		Point:     ray.At(t),
		Normal:    types.Vec3{1, 0, 0},
		U:         rec1.U,
		V:         rec1.V,
		Material:  m.PhaseFunction,
		FrontFace: true,
	}, true
}

func (m *ConstantMedium) BBox(t0, t1 float64) (scene.AABB, bool) {
	return m.Boundary.BBox(t0, t1)
}

func (m *ConstantMedium) PdfValue(origin, dir types.Vec3, rng *rand.Rand) float64 {
	return m.Boundary.PdfValue(origin, dir, rng)
}

func (m *ConstantMedium) Random(origin types.Vec3, rng *rand.Rand) types.Vec3 {
	return m.Boundary.Random(origin, rng)
}
