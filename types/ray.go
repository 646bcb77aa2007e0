package types

// A ray with an origin, a (not necessarily normalized) direction and the
// time instant it was emitted at.
type Ray struct {
	Origin Vec3
	Dir    Vec3
	Time   float64
}

// Create a new ray.
func NewRay(origin, dir Vec3, time float64) Ray {
	return Ray{Origin: origin, Dir: dir, Time: time}
}

// Get the point along the ray at distance t.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
