package integrator

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/pdf"
	"github.com/achilleasa/lumen/types"
)

const (
	// The default number of bounces before a path is terminated.
	DefaultMaxDepth = 50

	// Intersections closer than this distance are ignored to avoid
	// self-intersections caused by floating point error.
	HitEpsilon = 0.001
)

// Estimate the radiance arriving at the origin of ray from its direction.
// Paths are truncated after depth bounces and contribute no radiance past
// that point.
func Radiance(ray types.Ray, sc *scene.Scene, depth int, rng *rand.Rand) types.Vec3 {
	if depth <= 0 {
		return types.Vec3{}
	}

	hit, ok := sc.Hit(ray, HitEpsilon, math.Inf(1), rng)
	if !ok {
		return sc.Background
	}

	emitted := hit.Material.Emitted(ray, &hit, hit.U, hit.V, hit.Point)
	srec, ok := hit.Material.Scatter(ray, &hit, rng)
	if !ok {
		return emitted
	}

	if srec.Specular {
		return emitted.Add(srec.Attenuation.MulVec(Radiance(srec.SpecularRay, sc, depth-1, rng)))
	}

	// Without lights to aim at, sample the material distribution alone.
	var p scene.PDF = srec.PDF
	if sc.HasLights() {
		p = pdf.NewMixture(pdf.NewHittable(sc.Lights, hit.Point, rng), srec.PDF)
	}

	scattered := types.NewRay(hit.Point, p.Generate(rng), ray.Time)
	pdfVal := p.Value(scattered.Dir)
	if !(pdfVal > 0) || math.IsInf(pdfVal, 1) {
		return emitted
	}

	scatteringPdf := hit.Material.ScatteringPdf(ray, &hit, scattered)
	return emitted.Add(
		srec.Attenuation.
			Mul(scatteringPdf).
			MulVec(Radiance(scattered, sc, depth-1, rng)).
			Div(pdfVal),
	)
}

// Sum samplesPerPixel radiance estimates for pixel (x, y) of a width x height
// frame. Row 0 is the top of the frame. Each sample is jittered inside the
// pixel footprint; the caller is responsible for averaging the result and
// converting it to a displayable color.
func RenderPixel(x, y, width, height int, sc *scene.Scene, samplesPerPixel, maxDepth int, rng *rand.Rand) types.Vec3 {
	var color types.Vec3
	du := 1.0 / math.Max(float64(width-1), 1)
	dv := 1.0 / math.Max(float64(height-1), 1)

	for sample := 0; sample < samplesPerPixel; sample++ {
		u := (float64(x) + rng.Float64()) * du
		v := 1.0 - (float64(y)+rng.Float64())*dv
		ray := sc.Camera.GetRay(u, v, rng)
		color = color.Add(Radiance(ray, sc, maxDepth, rng))
	}
	return color
}
