package primitive

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// A triangle with optional per-vertex normals and texture coordinates.
// Triangles are produced when loading polygon meshes.
type Triangle struct {
	Vertices [3]types.Vec3

	// If set, shading normals are interpolated from the vertex normals.
	Normals       [3]types.Vec3
	SmoothShading bool

	UVs [3]types.Vec2

	Material scene.Material

	// Cached values.
	edge1, edge2 types.Vec3
	faceNormal   types.Vec3
	area         float64
}

// Create a flat-shaded triangle.
func NewTriangle(v0, v1, v2 types.Vec3, mat scene.Material) *Triangle {
	t := &Triangle{
		Vertices: [3]types.Vec3{v0, v1, v2},
		UVs:      [3]types.Vec2{{0, 0}, {1, 0}, {0, 1}},
		Material: mat,
	}
	t.update()
	return t
}

// Create a triangle with interpolated normals and explicit texture coordinates.
func NewSmoothTriangle(vertices, normals [3]types.Vec3, uvs [3]types.Vec2, mat scene.Material) *Triangle {
	t := &Triangle{
		Vertices:      vertices,
		Normals:       normals,
		SmoothShading: true,
		UVs:           uvs,
		Material:      mat,
	}
	for i := range t.Normals {
		t.Normals[i] = t.Normals[i].Normalize()
	}
	t.update()
	return t
}

func (t *Triangle) update() {
	t.edge1 = t.Vertices[1].Sub(t.Vertices[0])
	t.edge2 = t.Vertices[2].Sub(t.Vertices[0])
	cross := t.edge1.Cross(t.edge2)
	t.area = 0.5 * cross.Len()
	t.faceNormal = cross.Normalize()
}

// Moller-Trumbore intersection.
func (t *Triangle) Hit(ray types.Ray, tMin, tMax float64, _ *rand.Rand) (scene.HitRecord, bool) {
	pvec := ray.Dir.Cross(t.edge2)
	det := t.edge1.Dot(pvec)
	if math.Abs(det) < 1e-12 {
		return scene.HitRecord{}, false
	}
	invDet := 1 / det

	tvec := ray.Origin.Sub(t.Vertices[0])
	b1 := tvec.Dot(pvec) * invDet
	if b1 < 0 || b1 > 1 {
		return scene.HitRecord{}, false
	}

	qvec := tvec.Cross(t.edge1)
	b2 := ray.Dir.Dot(qvec) * invDet
	if b2 < 0 || b1+b2 > 1 {
		return scene.HitRecord{}, false
	}

	dist := t.edge2.Dot(qvec) * invDet
	if dist < tMin || dist > tMax {
		return scene.HitRecord{}, false
	}

	b0 := 1 - b1 - b2
	normal := t.faceNormal
	if t.SmoothShading {
		normal = t.Normals[0].Mul(b0).Add(t.Normals[1].Mul(b1)).Add(t.Normals[2].Mul(b2)).Normalize()
	}
	uv := t.UVs[0].Mul(b0).Add(t.UVs[1].Mul(b1)).Add(t.UVs[2].Mul(b2))

	return scene.NewHitRecord(ray, dist, ray.At(dist), normal, uv[0], uv[1], t.Material), true
}

// The bbox is padded along each axis so axis-aligned triangles never
// produce flat boxes.
func (t *Triangle) BBox(_, _ float64) (scene.AABB, bool) {
	min := types.MinVec3(t.Vertices[0], types.MinVec3(t.Vertices[1], t.Vertices[2]))
	max := types.MaxVec3(t.Vertices[0], types.MaxVec3(t.Vertices[1], t.Vertices[2]))
	pad := types.Splat(scene.PlanarPad)
	return scene.AABB{Min: min.Sub(pad), Max: max.Add(pad)}, true
}

// Density of uniformly sampling a point on the triangle, converted to solid
// angle as seen from origin.
func (t *Triangle) PdfValue(origin, dir types.Vec3, rng *rand.Rand) float64 {
	rec, hit := t.Hit(types.NewRay(origin, dir, 0), sampleEpsilon, math.Inf(1), rng)
	if !hit || t.area == 0 {
		return 0
	}

	distSq := rec.T * rec.T * dir.LenSq()
	cosine := math.Abs(dir.Dot(t.faceNormal) / dir.Len())
	if cosine == 0 {
		return 0
	}
	return distSq / (cosine * t.area)
}

func (t *Triangle) Random(origin types.Vec3, rng *rand.Rand) types.Vec3 {
	r1 := math.Sqrt(rng.Float64())
	r2 := rng.Float64()
	p := t.Vertices[0].Mul(1 - r1).
		Add(t.Vertices[1].Mul(r1 * (1 - r2))).
		Add(t.Vertices[2].Mul(r1 * r2))
	return p.Sub(origin)
}
