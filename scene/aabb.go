package scene

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

// Pad applied to planar primitives so that their bounding boxes never have
// zero thickness.
const PlanarPad = 1e-4

// An axis-aligned bounding box.
type AABB struct {
	Min types.Vec3
	Max types.Vec3
}

// An "empty" box which acts as the identity for Surround.
func EmptyAABB() AABB {
	return AABB{
		Min: types.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: types.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// Test whether the ray intersects the box within [tMin, tMax] using the
// slab method.
//
// Rays parallel to a slab get an infinite inverse direction component; the
// resulting +/- Inf slab distances keep or reject the ray without any special
// casing. NaN distances (origin lying exactly on a parallel slab) never
// narrow the interval.
func (b AABB) Hit(ray types.Ray, tMin, tMax float64) bool {
	for a := 0; a < 3; a++ {
		invD := 1.0 / ray.Dir[a]
		t0 := (b.Min[a] - ray.Origin[a]) * invD
		t1 := (b.Max[a] - ray.Origin[a]) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return false
		}
	}
	return true
}

// Get the smallest box that contains both a and b.
func Surround(a, b AABB) AABB {
	return AABB{
		Min: types.MinVec3(a.Min, b.Min),
		Max: types.MaxVec3(a.Max, b.Max),
	}
}

// Get a copy of the box moved by offset.
func (b AABB) Translate(offset types.Vec3) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Get the box center.
func (b AABB) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Returns true if other lies completely inside this box.
func (b AABB) Contains(other AABB) bool {
	for a := 0; a < 3; a++ {
		if other.Min[a] < b.Min[a] || other.Max[a] > b.Max[a] {
			return false
		}
	}
	return true
}

// Returns true if all box extents are finite.
func (b AABB) IsFinite() bool {
	for a := 0; a < 3; a++ {
		if math.IsInf(b.Min[a], 0) || math.IsInf(b.Max[a], 0) || math.IsNaN(b.Min[a]) || math.IsNaN(b.Max[a]) {
			return false
		}
	}
	return true
}

// Get the box surface area.
func (b AABB) SurfaceArea() float64 {
	side := b.Max.Sub(b.Min)
	return 2 * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2])
}
