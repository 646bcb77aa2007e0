package scene

import (
	"math/rand"

	"github.com/achilleasa/lumen/types"
)

// The Primitive interface is implemented by all objects that can be
// intersected by rays.
type Primitive interface {
	// Find the intersection of ray with the primitive within [tMin, tMax].
	// Primitives that need randomness (participating media) draw from rng.
	Hit(ray types.Ray, tMin, tMax float64, rng *rand.Rand) (HitRecord, bool)

	// Get the primitive bounds over the time interval [t0, t1]. Returns
	// false if the primitive cannot be bounded.
	BBox(t0, t1 float64) (AABB, bool)

	// Get the solid-angle density of sampling direction dir from origin
	// towards this primitive.
	PdfValue(origin, dir types.Vec3, rng *rand.Rand) float64

	// Generate a random direction from origin towards this primitive.
	Random(origin types.Vec3, rng *rand.Rand) types.Vec3
}

// The result of a successful ray-primitive intersection.
type HitRecord struct {
	T      float64
	Point  types.Vec3
	Normal types.Vec3

	// Surface parametrization.
	U, V float64

	Material  Material
	FrontFace bool
}

// Create a hit record orienting outwardNormal against the incoming ray.
func NewHitRecord(ray types.Ray, t float64, point, outwardNormal types.Vec3, u, v float64, mat Material) HitRecord {
	rec := HitRecord{
		T:        t,
		Point:    point,
		U:        u,
		V:        v,
		Material: mat,
	}
	rec.SetFaceNormal(ray, outwardNormal)
	return rec
}

// Set the record normal so that it always points against the ray.
func (rec *HitRecord) SetFaceNormal(ray types.Ray, outwardNormal types.Vec3) {
	rec.FrontFace = ray.Dir.Dot(outwardNormal) < 0
	if rec.FrontFace {
		rec.Normal = outwardNormal
	} else {
		rec.Normal = outwardNormal.Neg()
	}
}

// A flat collection of primitives that is tested linearly. It is mostly used
// for grouping light sampling targets and small composite shapes.
type PrimitiveList []Primitive

func (l PrimitiveList) Hit(ray types.Ray, tMin, tMax float64, rng *rand.Rand) (HitRecord, bool) {
	var closest HitRecord
	hitAnything := false
	closestSoFar := tMax
	for _, prim := range l {
		if rec, ok := prim.Hit(ray, tMin, closestSoFar, rng); ok {
			hitAnything = true
			closestSoFar = rec.T
			closest = rec
		}
	}
	return closest, hitAnything
}

func (l PrimitiveList) BBox(t0, t1 float64) (AABB, bool) {
	if len(l) == 0 {
		return AABB{}, false
	}

	out := EmptyAABB()
	for _, prim := range l {
		box, ok := prim.BBox(t0, t1)
		if !ok {
			return AABB{}, false
		}
		out = Surround(out, box)
	}
	return out, true
}

// The density of a list is the average of its members' densities.
func (l PrimitiveList) PdfValue(origin, dir types.Vec3, rng *rand.Rand) float64 {
	if len(l) == 0 {
		return 0
	}

	weight := 1.0 / float64(len(l))
	sum := 0.0
	for _, prim := range l {
		sum += weight * prim.PdfValue(origin, dir, rng)
	}
	return sum
}

// Pick a member uniformly and sample a direction towards it.
func (l PrimitiveList) Random(origin types.Vec3, rng *rand.Rand) types.Vec3 {
	if len(l) == 0 {
		return types.Vec3{1, 0, 0}
	}
	return l[rng.Intn(len(l))].Random(origin, rng)
}
