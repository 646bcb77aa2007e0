// Package pdf contains the direction sampling strategies used by materials
// and by the path integrator.
package pdf

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// Cosine samples directions on the hemisphere around a surface normal with
// density proportional to the cosine of the angle to the normal.
type Cosine struct {
	uvw types.ONB
}

func NewCosine(normal types.Vec3) *Cosine {
	return &Cosine{uvw: types.NewONB(normal)}
}

func (p *Cosine) Value(dir types.Vec3) float64 {
	cosine := dir.Normalize().Dot(p.uvw.W)
	if cosine <= 0 {
		return 0
	}
	return cosine / math.Pi
}

func (p *Cosine) Generate(rng *rand.Rand) types.Vec3 {
	return p.uvw.ToWorld(types.RandCosineDirection(rng))
}

// Hittable samples directions from an origin towards a target primitive. It
// is used for sampling light sources directly.
type Hittable struct {
	target scene.Primitive
	origin types.Vec3

	// Primitives that need randomness to evaluate their density (media)
	// draw from this generator.
	rng *rand.Rand
}

func NewHittable(target scene.Primitive, origin types.Vec3, rng *rand.Rand) *Hittable {
	return &Hittable{target: target, origin: origin, rng: rng}
}

func (p *Hittable) Value(dir types.Vec3) float64 {
	return p.target.PdfValue(p.origin, dir, p.rng)
}

func (p *Hittable) Generate(rng *rand.Rand) types.Vec3 {
	return p.target.Random(p.origin, rng)
}

// Mixture blends two PDFs with equal weights.
type Mixture struct {
	pdfs [2]scene.PDF
}

func NewMixture(p0, p1 scene.PDF) *Mixture {
	return &Mixture{pdfs: [2]scene.PDF{p0, p1}}
}

func (p *Mixture) Value(dir types.Vec3) float64 {
	return 0.5*p.pdfs[0].Value(dir) + 0.5*p.pdfs[1].Value(dir)
}

func (p *Mixture) Generate(rng *rand.Rand) types.Vec3 {
	if rng.Float64() < 0.5 {
		return p.pdfs[0].Generate(rng)
	}
	return p.pdfs[1].Generate(rng)
}

// Null is a degenerate PDF for materials whose scattering is not sampled
// stochastically.
type Null struct{}

func (Null) Value(_ types.Vec3) float64 {
	return 0
}

func (Null) Generate(_ *rand.Rand) types.Vec3 {
	return types.Vec3{}
}

// Sphere samples directions uniformly over the unit sphere.
type Sphere struct{}

func (Sphere) Value(_ types.Vec3) float64 {
	return 1 / (4 * math.Pi)
}

func (Sphere) Generate(rng *rand.Rand) types.Vec3 {
	return types.RandUnitVector(rng)
}
