package material

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/asset/texture"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/pdf"
	"github.com/achilleasa/lumen/types"
)

// Materials that do not emit light embed this type.
type nonEmissive struct{}

func (nonEmissive) Emitted(_ types.Ray, _ *scene.HitRecord, _, _ float64, _ types.Vec3) types.Vec3 {
	return types.Vec3{}
}

// Lambertian is an ideal diffuse reflector.
type Lambertian struct {
	nonEmissive
	Albedo texture.Texture
}

func NewLambertian(albedo texture.Texture) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

func (m *Lambertian) Scatter(_ types.Ray, hit *scene.HitRecord, _ *rand.Rand) (scene.ScatterRecord, bool) {
	return scene.ScatterRecord{
		Attenuation: m.Albedo.Value(hit.U, hit.V, hit.Point),
		PDF:         pdf.NewCosine(hit.Normal),
	}, true
}

func (m *Lambertian) ScatteringPdf(_ types.Ray, hit *scene.HitRecord, scattered types.Ray) float64 {
	cosine := hit.Normal.Dot(scattered.Dir.Normalize())
	if cosine < 0 {
		return 0
	}
	return cosine / math.Pi
}

// Metal is a (possibly fuzzy) mirror.
type Metal struct {
	nonEmissive
	Albedo types.Vec3
	Fuzz   float64
}

func NewMetal(albedo types.Vec3, fuzz float64) *Metal {
	return &Metal{Albedo: albedo, Fuzz: math.Min(fuzz, 1)}
}

func (m *Metal) Scatter(rayIn types.Ray, hit *scene.HitRecord, rng *rand.Rand) (scene.ScatterRecord, bool) {
	reflected := rayIn.Dir.Normalize().Reflect(hit.Normal)
	if m.Fuzz > 0 {
		reflected = reflected.Add(types.RandInUnitSphere(rng).Mul(m.Fuzz))
	}

	// Fuzzed reflections that end up below the surface are absorbed.
	if reflected.Dot(hit.Normal) <= 0 {
		return scene.ScatterRecord{}, false
	}

	return scene.ScatterRecord{
		Specular:    true,
		SpecularRay: types.NewRay(hit.Point, reflected, rayIn.Time),
		Attenuation: m.Albedo,
		PDF:         pdf.Null{},
	}, true
}

func (m *Metal) ScatteringPdf(_ types.Ray, _ *scene.HitRecord, _ types.Ray) float64 {
	return 0
}

// Dielectric is a clear refractive material such as glass or water.
type Dielectric struct {
	nonEmissive
	IOR float64
}

func NewDielectric(ior float64) *Dielectric {
	return &Dielectric{IOR: ior}
}

func (m *Dielectric) Scatter(rayIn types.Ray, hit *scene.HitRecord, rng *rand.Rand) (scene.ScatterRecord, bool) {
	refractionRatio := m.IOR
	if hit.FrontFace {
		refractionRatio = 1.0 / m.IOR
	}

	unitDir := rayIn.Dir.Normalize()
	cosTheta := math.Min(unitDir.Neg().Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	var dir types.Vec3
	if refractionRatio*sinTheta > 1.0 || schlick(cosTheta, refractionRatio) > rng.Float64() {
		dir = unitDir.Reflect(hit.Normal)
	} else {
		dir = unitDir.Refract(hit.Normal, refractionRatio)
	}

	return scene.ScatterRecord{
		Specular:    true,
		SpecularRay: types.NewRay(hit.Point, dir, rayIn.Time),
		Attenuation: types.Vec3{1, 1, 1},
		PDF:         pdf.Null{},
	}, true
}

func (m *Dielectric) ScatteringPdf(_ types.Ray, _ *scene.HitRecord, _ types.Ray) float64 {
	return 0
}

// Schlick's approximation for reflectance.
func schlick(cosine, refIdx float64) float64 {
	r0 := (1 - refIdx) / (1 + refIdx)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// DiffuseLight is a one-sided emitter. It emits from its front face and
// absorbs all incoming light.
type DiffuseLight struct {
	Emit texture.Texture
}

func NewDiffuseLight(emit texture.Texture) *DiffuseLight {
	return &DiffuseLight{Emit: emit}
}

func (m *DiffuseLight) Scatter(_ types.Ray, _ *scene.HitRecord, _ *rand.Rand) (scene.ScatterRecord, bool) {
	return scene.ScatterRecord{}, false
}

func (m *DiffuseLight) Emitted(_ types.Ray, hit *scene.HitRecord, u, v float64, p types.Vec3) types.Vec3 {
	if !hit.FrontFace {
		return types.Vec3{}
	}
	return m.Emit.Value(u, v, p)
}

func (m *DiffuseLight) ScatteringPdf(_ types.Ray, _ *scene.HitRecord, _ types.Ray) float64 {
	return 0
}

// Isotropic is the phase function of participating media; it scatters
// uniformly in all directions.
type Isotropic struct {
	nonEmissive
	Albedo texture.Texture
}

func NewIsotropic(albedo texture.Texture) *Isotropic {
	return &Isotropic{Albedo: albedo}
}

func (m *Isotropic) Scatter(_ types.Ray, hit *scene.HitRecord, _ *rand.Rand) (scene.ScatterRecord, bool) {
	return scene.ScatterRecord{
		Attenuation: m.Albedo.Value(hit.U, hit.V, hit.Point),
		PDF:         pdf.Sphere{},
	}, true
}

func (m *Isotropic) ScatteringPdf(_ types.Ray, _ *scene.HitRecord, _ types.Ray) float64 {
	return 1 / (4 * math.Pi)
}
