package primitive

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// Minimum hit distance used when probing primitives for light sampling.
const sampleEpsilon = 1e-3

// A static sphere.
type Sphere struct {
	Center   types.Vec3
	Radius   float64
	Material scene.Material
}

func NewSphere(center types.Vec3, radius float64, mat scene.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: mat}
}

func (s *Sphere) Hit(ray types.Ray, tMin, tMax float64, _ *rand.Rand) (scene.HitRecord, bool) {
	return hitSphere(ray, s.Center, s.Radius, tMin, tMax, s.Material)
}

func (s *Sphere) BBox(_, _ float64) (scene.AABB, bool) {
	r := types.Splat(math.Abs(s.Radius))
	return scene.AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}, true
}

func (s *Sphere) PdfValue(origin, dir types.Vec3, _ *rand.Rand) float64 {
	return spherePdfValue(s.Center, s.Radius, origin, dir)
}

func (s *Sphere) Random(origin types.Vec3, rng *rand.Rand) types.Vec3 {
	return sphereRandom(s.Center, s.Radius, origin, rng)
}

// A sphere whose center moves linearly from Center0 at Time0 to Center1 at
// Time1.
type MovingSphere struct {
	Center0, Center1 types.Vec3
	Time0, Time1     float64
	Radius           float64
	Material         scene.Material
}

func NewMovingSphere(center0, center1 types.Vec3, time0, time1, radius float64, mat scene.Material) *MovingSphere {
	return &MovingSphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: mat,
	}
}

// Get the sphere center at the given time.
func (s *MovingSphere) Center(time float64) types.Vec3 {
	if s.Time1 == s.Time0 {
		return s.Center0
	}
	return s.Center0.Add(s.Center1.Sub(s.Center0).Mul((time - s.Time0) / (s.Time1 - s.Time0)))
}

func (s *MovingSphere) Hit(ray types.Ray, tMin, tMax float64, _ *rand.Rand) (scene.HitRecord, bool) {
	return hitSphere(ray, s.Center(ray.Time), s.Radius, tMin, tMax, s.Material)
}

func (s *MovingSphere) BBox(t0, t1 float64) (scene.AABB, bool) {
	r := types.Splat(math.Abs(s.Radius))
	c0 := s.Center(t0)
	c1 := s.Center(t1)
	return scene.Surround(
		scene.AABB{Min: c0.Sub(r), Max: c0.Add(r)},
		scene.AABB{Min: c1.Sub(r), Max: c1.Add(r)},
	), true
}

// Light sampling targets the sphere at the middle of its motion interval.
func (s *MovingSphere) PdfValue(origin, dir types.Vec3, _ *rand.Rand) float64 {
	return spherePdfValue(s.Center(0.5*(s.Time0+s.Time1)), s.Radius, origin, dir)
}

func (s *MovingSphere) Random(origin types.Vec3, rng *rand.Rand) types.Vec3 {
	return sphereRandom(s.Center(0.5*(s.Time0+s.Time1)), s.Radius, origin, rng)
}

// Density of uniformly sampling the cone subtended by a sphere. An origin
// inside the sphere sees it in every direction.
func spherePdfValue(center types.Vec3, radius float64, origin, dir types.Vec3) float64 {
	distSq := center.Sub(origin).LenSq()
	if distSq <= radius*radius {
		return 1 / (4 * math.Pi)
	}

	if _, hit := hitSphere(types.NewRay(origin, dir, 0), center, radius, sampleEpsilon, math.Inf(1), nil); !hit {
		return 0
	}

	cosThetaMax := math.Sqrt(1 - radius*radius/distSq)
	return 1 / (2 * math.Pi * (1 - cosThetaMax))
}

func sphereRandom(center types.Vec3, radius float64, origin types.Vec3, rng *rand.Rand) types.Vec3 {
	dir := center.Sub(origin)
	distSq := dir.LenSq()
	if distSq <= radius*radius {
		return types.RandUnitVector(rng)
	}
	return types.NewONB(dir).ToWorld(types.RandToSphere(rng, radius, distSq))
}

func hitSphere(ray types.Ray, center types.Vec3, radius, tMin, tMax float64, mat scene.Material) (scene.HitRecord, bool) {
	oc := ray.Origin.Sub(center)
	a := ray.Dir.LenSq()
	halfB := oc.Dot(ray.Dir)
	c := oc.LenSq() - radius*radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return scene.HitRecord{}, false
	}

	// Find the nearest root that lies in the acceptable range.
	sqrtD := math.Sqrt(discriminant)
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return scene.HitRecord{}, false
		}
	}

	point := ray.At(root)
	outwardNormal := point.Sub(center).Div(radius)
	u, v := sphereUV(outwardNormal)
	return scene.NewHitRecord(ray, root, point, outwardNormal, u, v, mat), true
}

// Map a point on the unit sphere to (u, v) coordinates in [0, 1].
func sphereUV(p types.Vec3) (u, v float64) {
	theta := math.Acos(-p[1])
	phi := math.Atan2(-p[2], p[0]) + math.Pi
	return phi / (2 * math.Pi), theta / math.Pi
}
