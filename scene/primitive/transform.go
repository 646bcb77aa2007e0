package primitive

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// Translate moves a primitive by a fixed offset.
type Translate struct {
	Inner  scene.Primitive
	Offset types.Vec3
}

func NewTranslate(inner scene.Primitive, offset types.Vec3) *Translate {
	return &Translate{Inner: inner, Offset: offset}
}

func (tr *Translate) Hit(ray types.Ray, tMin, tMax float64, rng *rand.Rand) (scene.HitRecord, bool) {
	moved := types.NewRay(ray.Origin.Sub(tr.Offset), ray.Dir, ray.Time)
	rec, ok := tr.Inner.Hit(moved, tMin, tMax, rng)
	if !ok {
		return rec, false
	}
	rec.Point = rec.Point.Add(tr.Offset)
	return rec, true
}

func (tr *Translate) BBox(t0, t1 float64) (scene.AABB, bool) {
	box, ok := tr.Inner.BBox(t0, t1)
	if !ok {
		return box, false
	}
	return box.Translate(tr.Offset), true
}

func (tr *Translate) PdfValue(origin, dir types.Vec3, rng *rand.Rand) float64 {
	return tr.Inner.PdfValue(origin.Sub(tr.Offset), dir, rng)
}

func (tr *Translate) Random(origin types.Vec3, rng *rand.Rand) types.Vec3 {
	return tr.Inner.Random(origin.Sub(tr.Offset), rng)
}

// Rotate rotates a primitive around an axis passing through the origin.
type Rotate struct {
	Inner scene.Primitive

	rot    types.Quat
	invRot types.Quat
}

// Rotate inner by angle degrees around axis.
func NewRotate(inner scene.Primitive, axis types.Vec3, angle float64) *Rotate {
	rot := types.QuatFromAxisAngle(axis, angle*math.Pi/180.0)
	return &Rotate{
		Inner:  inner,
		rot:    rot,
		invRot: rot.Inverse(),
	}
}

// Rotate inner by angle degrees around the Y axis.
func NewRotateY(inner scene.Primitive, angle float64) *Rotate {
	return NewRotate(inner, types.Vec3{0, 1, 0}, angle)
}

func (r *Rotate) Hit(ray types.Ray, tMin, tMax float64, rng *rand.Rand) (scene.HitRecord, bool) {
	local := types.NewRay(r.invRot.Rotate(ray.Origin), r.invRot.Rotate(ray.Dir), ray.Time)
	rec, ok := r.Inner.Hit(local, tMin, tMax, rng)
	if !ok {
		return rec, false
	}

	// Rotations preserve the orientation of the normal relative to the ray.
	rec.Point = r.rot.Rotate(rec.Point)
	rec.Normal = r.rot.Rotate(rec.Normal)
	return rec, true
}

func (r *Rotate) BBox(t0, t1 float64) (scene.AABB, bool) {
	box, ok := r.Inner.BBox(t0, t1)
	if !ok {
		return box, false
	}

	out := scene.EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := types.Vec3{box.Min[0], box.Min[1], box.Min[2]}
		if i&1 != 0 {
			corner[0] = box.Max[0]
		}
		if i&2 != 0 {
			corner[1] = box.Max[1]
		}
		if i&4 != 0 {
			corner[2] = box.Max[2]
		}
		p := r.rot.Rotate(corner)
		out = scene.Surround(out, scene.AABB{Min: p, Max: p})
	}
	return out, true
}

func (r *Rotate) PdfValue(origin, dir types.Vec3, rng *rand.Rand) float64 {
	return r.Inner.PdfValue(r.invRot.Rotate(origin), r.invRot.Rotate(dir), rng)
}

func (r *Rotate) Random(origin types.Vec3, rng *rand.Rand) types.Vec3 {
	return r.rot.Rotate(r.Inner.Random(r.invRot.Rotate(origin), rng))
}

// FlipFace inverts the front-face flag reported by a primitive. It is
// typically used to make one-sided emitters face the other way.
type FlipFace struct {
	Inner scene.Primitive
}

func NewFlipFace(inner scene.Primitive) *FlipFace {
	return &FlipFace{Inner: inner}
}

func (f *FlipFace) Hit(ray types.Ray, tMin, tMax float64, rng *rand.Rand) (scene.HitRecord, bool) {
	rec, ok := f.Inner.Hit(ray, tMin, tMax, rng)
	if ok {
		rec.FrontFace = !rec.FrontFace
	}
	return rec, ok
}

func (f *FlipFace) BBox(t0, t1 float64) (scene.AABB, bool) {
	return f.Inner.BBox(t0, t1)
}

func (f *FlipFace) PdfValue(origin, dir types.Vec3, rng *rand.Rand) float64 {
	return f.Inner.PdfValue(origin, dir, rng)
}

func (f *FlipFace) Random(origin types.Vec3, rng *rand.Rand) types.Vec3 {
	return f.Inner.Random(origin, rng)
}
