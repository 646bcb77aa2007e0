package material

// BxdfType represents the material types supported by the renderer.
type BxdfType int

const (
	bxdfInvalid BxdfType = iota
	BxdfLambertian
	BxdfMetal
	BxdfDielectric
	BxdfDiffuseLight
	BxdfIsotropic
)

// Lookup bxdf type by its name.
func BxdfTypeFromName(name string) BxdfType {
	switch name {
	case "lambertian", "diffuse":
		return BxdfLambertian
	case "metal", "conductor":
		return BxdfMetal
	case "dielectric":
		return BxdfDielectric
	case "diffuseLight", "emissive":
		return BxdfDiffuseLight
	case "isotropic":
		return BxdfIsotropic
	}

	return bxdfInvalid
}

// Returns true if this is a known bxdf type.
func (t BxdfType) IsValid() bool {
	return t != bxdfInvalid
}

func (t BxdfType) String() string {
	switch t {
	case BxdfLambertian:
		return "lambertian"
	case BxdfMetal:
		return "metal"
	case BxdfDielectric:
		return "dielectric"
	case BxdfDiffuseLight:
		return "diffuseLight"
	case BxdfIsotropic:
		return "isotropic"
	}

	return "invalid"
}
