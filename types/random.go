package types

import (
	"math"
	"math/rand"
)

// Generate a random float in [min, max).
func RandRange(rng *rand.Rand, min, max float64) float64 {
	return min + (max-min)*rng.Float64()
}

// Generate a vector whose components are uniformly distributed in [min, max).
func RandVec3(rng *rand.Rand, min, max float64) Vec3 {
	return Vec3{RandRange(rng, min, max), RandRange(rng, min, max), RandRange(rng, min, max)}
}

// Rejection-sample a point inside the unit sphere.
func RandInUnitSphere(rng *rand.Rand) Vec3 {
	for {
		p := RandVec3(rng, -1, 1)
		if p.LenSq() < 1 {
			return p
		}
	}
}

// Generate a uniformly distributed unit vector.
func RandUnitVector(rng *rand.Rand) Vec3 {
	return RandInUnitSphere(rng).Normalize()
}

// Rejection-sample a point inside the unit disk on the XY plane.
func RandInUnitDisk(rng *rand.Rand) Vec3 {
	for {
		p := Vec3{RandRange(rng, -1, 1), RandRange(rng, -1, 1), 0}
		if p.LenSq() < 1 {
			return p
		}
	}
}

// Generate a cosine-weighted direction on the +Z hemisphere.
func RandCosineDirection(rng *rand.Rand) Vec3 {
	r1 := rng.Float64()
	r2 := rng.Float64()

	phi := 2 * math.Pi * r1
	z := math.Sqrt(1 - r2)
	sqrtR2 := math.Sqrt(r2)
	return Vec3{math.Cos(phi) * sqrtR2, math.Sin(phi) * sqrtR2, z}
}

// Generate a direction (around +Z) uniformly distributed over the solid angle
// subtended by a sphere of the given radius at distance sqrt(distSq).
func RandToSphere(rng *rand.Rand, radius, distSq float64) Vec3 {
	r1 := rng.Float64()
	r2 := rng.Float64()

	z := 1 + r2*(math.Sqrt(1-radius*radius/distSq)-1)
	phi := 2 * math.Pi * r1
	sinTheta := math.Sqrt(1 - z*z)
	return Vec3{math.Cos(phi) * sinTheta, math.Sin(phi) * sinTheta, z}
}
