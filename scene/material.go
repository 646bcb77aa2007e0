package scene

import (
	"math/rand"

	"github.com/achilleasa/lumen/types"
)

// The Material interface is implemented by all surface and volume materials.
type Material interface {
	// Sample the scattering distribution at a hit point. Returns false if
	// the incoming ray is absorbed.
	Scatter(rayIn types.Ray, hit *HitRecord, rng *rand.Rand) (ScatterRecord, bool)

	// Get the radiance emitted at a hit point.
	Emitted(rayIn types.Ray, hit *HitRecord, u, v float64, p types.Vec3) types.Vec3

	// Get the material's own density for scattering rayIn into scattered.
	ScatteringPdf(rayIn types.Ray, hit *HitRecord, scattered types.Ray) float64
}

// The PDF interface is implemented by all direction sampling strategies.
type PDF interface {
	// Get the density of sampling direction dir.
	Value(dir types.Vec3) float64

	// Draw a direction.
	Generate(rng *rand.Rand) types.Vec3
}

// Describes how a material scatters an incoming ray. Specular records carry
// a deterministic continuation ray; all others carry the PDF to sample
// continuation directions from.
type ScatterRecord struct {
	Specular    bool
	SpecularRay types.Ray
	Attenuation types.Vec3
	PDF         PDF
}
