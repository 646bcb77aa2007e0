package input

import (
	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/types"
)

// Supported texture types.
const (
	TextureSolid   = "solid"
	TextureChecker = "checker"
	TextureNoise   = "noise"
	TextureImage   = "image"
)

// Supported primitive types.
const (
	PrimSphere         = "sphere"
	PrimMovingSphere   = "movingSphere"
	PrimXYRect         = "xyRect"
	PrimXZRect         = "xzRect"
	PrimYZRect         = "yzRect"
	PrimBox            = "box"
	PrimPlane          = "plane"
	PrimTriangle       = "triangle"
	PrimConstantMedium = "constantMedium"
)

// Supported primitive transformations.
const (
	TransformTranslate = "translate"
	TransformRotate    = "rotate"
)

// Camera settings.
type Camera struct {
	LookFrom types.Vec3 `json:"lookFrom"`
	LookAt   types.Vec3 `json:"lookAt"`
	Up       types.Vec3 `json:"up"`

	// Vertical field of view in degrees.
	FOV float64 `json:"fov"`

	Aperture  float64 `json:"aperture,omitempty"`
	FocusDist float64 `json:"focusDist,omitempty"`

	ShutterOpen  float64 `json:"shutterOpen,omitempty"`
	ShutterClose float64 `json:"shutterClose,omitempty"`
}

// A named texture definition. Checker textures reference other textures by name.
type Texture struct {
	Name string `json:"name"`
	Type string `json:"type"`

	Color types.Vec3 `json:"color,omitempty"`

	Even string `json:"even,omitempty"`
	Odd  string `json:"odd,omitempty"`

	// Noise frequency.
	Scale float64 `json:"scale,omitempty"`

	// Image path; relative paths are resolved against the scene file.
	Path string `json:"path,omitempty"`
}

// A named material definition. Type is one of the names understood by
// material.BxdfTypeFromName.
type Material struct {
	Name string `json:"name"`
	Type string `json:"type"`

	// Albedo is used when no texture is specified.
	Albedo  *types.Vec3 `json:"albedo,omitempty"`
	Texture string      `json:"texture,omitempty"`

	Fuzz float64 `json:"fuzz,omitempty"`

	// Dielectrics specify either an explicit IOR or a named medium.
	IOR    float64 `json:"ior,omitempty"`
	Medium string  `json:"medium,omitempty"`

	Emission *types.Vec3 `json:"emission,omitempty"`

	// True if material is referenced by scene geometry.
	Used bool `json:"-"`
}

// A transformation applied to a primitive. Transformations are applied in
// the order they are listed.
type Transform struct {
	Type string `json:"type"`

	Offset types.Vec3 `json:"offset,omitempty"`

	Axis  types.Vec3 `json:"axis,omitempty"`
	Angle float64    `json:"angle,omitempty"`
}

// A primitive definition. Only the fields relevant to Type are consulted.
type Primitive struct {
	Type     string `json:"type"`
	Material string `json:"material,omitempty"`

	// Spheres.
	Center  types.Vec3 `json:"center,omitempty"`
	Center1 types.Vec3 `json:"center1,omitempty"`
	Time0   float64    `json:"time0,omitempty"`
	Time1   float64    `json:"time1,omitempty"`
	Radius  float64    `json:"radius,omitempty"`

	// Axis-aligned rects: [a0, a1, b0, b1] and the fixed coordinate K.
	Bounds [4]float64 `json:"bounds,omitempty"`
	K      float64    `json:"k,omitempty"`

	// Boxes.
	Min types.Vec3 `json:"min,omitempty"`
	Max types.Vec3 `json:"max,omitempty"`

	// Planes.
	Point  types.Vec3 `json:"point,omitempty"`
	Normal types.Vec3 `json:"normal,omitempty"`

	// Triangles. Normals and UVs are optional.
	Vertices [3]types.Vec3  `json:"vertices,omitempty"`
	Normals  *[3]types.Vec3 `json:"normals,omitempty"`
	UVs      *[3]types.Vec2 `json:"uvs,omitempty"`

	// Participating media. Material is used as the phase function.
	Boundary *Primitive `json:"boundary,omitempty"`
	Density  float64    `json:"density,omitempty"`

	Transforms []Transform `json:"transforms,omitempty"`

	// Reverse the face orientation.
	Flip bool `json:"flip,omitempty"`

	// Also register this primitive as a light sampling target.
	Light bool `json:"light,omitempty"`
}

// Render settings that a scene may suggest. Zero values leave the renderer
// defaults untouched.
type RenderOptions struct {
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	SamplesPerPixel int     `json:"samplesPerPixel,omitempty"`
	MaxDepth        int     `json:"maxDepth,omitempty"`
	Gamma           float64 `json:"gamma,omitempty"`
}

// The scene contains all elements that are processed by the scene compiler.
type Scene struct {
	Camera     *Camera    `json:"camera"`
	Background types.Vec3 `json:"background"`

	Textures   []*Texture   `json:"textures,omitempty"`
	Materials  []*Material  `json:"materials,omitempty"`
	Primitives []*Primitive `json:"primitives"`

	// Shapes used only for light sampling; they are never rendered.
	Lights []*Primitive `json:"lights,omitempty"`

	Render *RenderOptions `json:"render,omitempty"`

	// Relative path for textures.
	AssetRelPath *asset.Resource `json:"-"`
}

// Create a new scene.
func NewScene() *Scene {
	return &Scene{
		Textures:   make([]*Texture, 0),
		Materials:  make([]*Material, 0),
		Primitives: make([]*Primitive, 0),
		Lights:     make([]*Primitive, 0),
		Camera: &Camera{
			LookFrom: types.Vec3{0, 0, 0},
			LookAt:   types.Vec3{0, 0, -1},
			Up:       types.Vec3{0, 1, 0},
			FOV:      45.0,
		},
	}
}

// Lookup a material by name.
func (s *Scene) Material(name string) *Material {
	for _, mat := range s.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}
