package primitive

import (
	"math/rand"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// An axis-aligned box built out of six rectangles.
type Box struct {
	Min, Max types.Vec3

	sides scene.PrimitiveList
}

func NewBox(min, max types.Vec3, mat scene.Material) *Box {
	return &Box{
		Min: min,
		Max: max,
		sides: scene.PrimitiveList{
			NewXYRect(min[0], max[0], min[1], max[1], max[2], mat),
			NewXYRect(min[0], max[0], min[1], max[1], min[2], mat),
			NewXZRect(min[0], max[0], min[2], max[2], max[1], mat),
			NewXZRect(min[0], max[0], min[2], max[2], min[1], mat),
			NewYZRect(min[1], max[1], min[2], max[2], max[0], mat),
			NewYZRect(min[1], max[1], min[2], max[2], min[0], mat),
		},
	}
}

func (b *Box) Hit(ray types.Ray, tMin, tMax float64, rng *rand.Rand) (scene.HitRecord, bool) {
	return b.sides.Hit(ray, tMin, tMax, rng)
}

func (b *Box) BBox(_, _ float64) (scene.AABB, bool) {
	return scene.AABB{Min: b.Min, Max: b.Max}, true
}

func (b *Box) PdfValue(origin, dir types.Vec3, rng *rand.Rand) float64 {
	return b.sides.PdfValue(origin, dir, rng)
}

func (b *Box) Random(origin types.Vec3, rng *rand.Rand) types.Vec3 {
	return b.sides.Random(origin, rng)
}
