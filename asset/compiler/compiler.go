package compiler

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/asset/compiler/bvh"
	"github.com/achilleasa/lumen/asset/compiler/input"
	"github.com/achilleasa/lumen/asset/material"
	"github.com/achilleasa/lumen/asset/texture"
	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/primitive"
	"github.com/achilleasa/lumen/types"
)

var ErrNoCamera = errors.New("compiler: scene does not define a camera")

type sceneCompiler struct {
	parsedScene   *input.Scene
	compiledScene *scene.Scene
	logger        log.Logger
	rng           *rand.Rand

	// Texture definitions by name and the textures built from them.
	texDefs  map[string]*input.Texture
	textures map[string]texture.Texture

	// Textures currently being resolved; used to detect reference cycles.
	resolving map[string]bool

	// A map of an image path to its decoded texture. This cache allows us to
	// re-use already loaded images when referenced by multiple textures.
	imageCache map[string]texture.Texture

	materials map[string]scene.Material

	// Used by primitives that do not reference a material.
	defaultMaterial scene.Material
}

// Compile a scene representation parsed by a scene reader into a renderable
// scene. The seed drives procedural textures and the BVH split axis selection
// so compiling the same input twice yields identical scenes.
func Compile(parsedScene *input.Scene, seed int64) (*scene.Scene, error) {
	compiler := newSceneCompiler(parsedScene, seed)

	start := time.Now()
	compiler.logger.Noticef("compiling scene")

	var err error
	err = compiler.setupCamera()
	if err != nil {
		return nil, err
	}

	err = compiler.createTextures()
	if err != nil {
		return nil, err
	}

	err = compiler.createMaterials()
	if err != nil {
		return nil, err
	}

	err = compiler.partitionGeometry()
	if err != nil {
		return nil, err
	}

	compiler.compiledScene.Background = parsedScene.Background

	compiler.logger.Noticef("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.compiledScene, nil
}

func newSceneCompiler(parsedScene *input.Scene, seed int64) *sceneCompiler {
	return &sceneCompiler{
		parsedScene:     parsedScene,
		compiledScene:   scene.NewScene(),
		logger:          log.New("scene compiler"),
		rng:             rand.New(rand.NewSource(seed)),
		texDefs:         make(map[string]*input.Texture),
		textures:        make(map[string]texture.Texture),
		resolving:       make(map[string]bool),
		imageCache:      make(map[string]texture.Texture),
		materials:       make(map[string]scene.Material),
		defaultMaterial: material.NewLambertian(texture.NewSolid(material.DefaultAlbedo)),
	}
}

func (sc *sceneCompiler) setupCamera() error {
	cam := sc.parsedScene.Camera
	if cam == nil {
		return ErrNoCamera
	}

	up := cam.Up
	if up == (types.Vec3{}) {
		up = types.Vec3{0, 1, 0}
	}

	camera := scene.NewCamera(cam.LookFrom, cam.LookAt, up, cam.FOV)
	if cam.FocusDist > 0 {
		camera.SetLens(cam.Aperture, cam.FocusDist)
	} else {
		camera.SetLens(cam.Aperture, camera.FocusDist)
	}
	camera.SetShutter(cam.ShutterOpen, cam.ShutterClose)

	sc.compiledScene.SetCamera(camera)
	return nil
}

func (sc *sceneCompiler) createTextures() error {
	start := time.Now()
	sc.logger.Noticef("processing %d textures", len(sc.parsedScene.Textures))

	for _, def := range sc.parsedScene.Textures {
		if def.Name == "" {
			return fmt.Errorf("compiler: texture definitions require a name")
		}
		if _, exists := sc.texDefs[def.Name]; exists {
			return fmt.Errorf("compiler: texture %q already defined", def.Name)
		}
		sc.texDefs[def.Name] = def
	}

	for _, def := range sc.parsedScene.Textures {
		if _, err := sc.resolveTexture(def.Name); err != nil {
			return err
		}
	}

	sc.logger.Noticef("processed %d textures in %d ms", len(sc.parsedScene.Textures), time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Lookup a texture by name, building it (and any textures it references) on
// first access.
func (sc *sceneCompiler) resolveTexture(name string) (texture.Texture, error) {
	if tex, exists := sc.textures[name]; exists {
		return tex, nil
	}

	def, exists := sc.texDefs[name]
	if !exists {
		return nil, fmt.Errorf("compiler: reference to undefined texture %q", name)
	}
	if sc.resolving[name] {
		return nil, fmt.Errorf("compiler: texture %q references itself", name)
	}
	sc.resolving[name] = true
	defer delete(sc.resolving, name)

	var tex texture.Texture
	switch def.Type {
	case input.TextureSolid:
		tex = texture.NewSolid(def.Color)
	case input.TextureChecker:
		even, err := sc.resolveTexture(def.Even)
		if err != nil {
			return nil, fmt.Errorf("%s (checker %q)", err.Error(), name)
		}
		odd, err := sc.resolveTexture(def.Odd)
		if err != nil {
			return nil, fmt.Errorf("%s (checker %q)", err.Error(), name)
		}
		tex = texture.NewChecker(even, odd)
	case input.TextureNoise:
		scale := def.Scale
		if scale == 0 {
			scale = 1
		}
		tex = texture.NewNoise(scale, sc.rng)
	case input.TextureImage:
		var err error
		tex, err = sc.loadImage(def.Path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("compiler: texture %q has unsupported type %q", name, def.Type)
	}

	sc.textures[name] = tex
	return tex, nil
}

func (sc *sceneCompiler) loadImage(imgPath string) (texture.Texture, error) {
	res, err := asset.NewResource(imgPath, sc.parsedScene.AssetRelPath)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	if tex, exists := sc.imageCache[res.Path()]; exists {
		return tex, nil
	}

	sc.logger.Infof(`loading image texture "%s"`, res.Path())
	tex, err := texture.New(res)
	if err != nil {
		return nil, err
	}
	sc.imageCache[res.Path()] = tex
	return tex, nil
}

func (sc *sceneCompiler) createMaterials() error {
	start := time.Now()
	sc.logger.Noticef("processing %d materials", len(sc.parsedScene.Materials))

	for _, mat := range sc.parsedScene.Materials {
		if mat.Name == "" {
			return fmt.Errorf("compiler: material definitions require a name")
		}
		if _, exists := sc.materials[mat.Name]; exists {
			return fmt.Errorf("compiler: material %q already defined", mat.Name)
		}

		sc.logger.Infof(`processing material "%s"`, mat.Name)
		compiled, err := sc.createMaterial(mat)
		if err != nil {
			return fmt.Errorf("compiler: material %q: %s", mat.Name, err.Error())
		}
		sc.materials[mat.Name] = compiled
	}

	sc.logger.Noticef("processed %d materials in %d ms", len(sc.parsedScene.Materials), time.Since(start).Nanoseconds()/1e6)
	return nil
}

func (sc *sceneCompiler) createMaterial(mat *input.Material) (scene.Material, error) {
	bxdf := material.BxdfTypeFromName(mat.Type)
	if !bxdf.IsValid() {
		return nil, fmt.Errorf("unsupported type %q", mat.Type)
	}

	switch bxdf {
	case material.BxdfLambertian:
		tex, err := sc.materialTexture(mat.Texture, mat.Albedo, material.DefaultAlbedo)
		if err != nil {
			return nil, err
		}
		return material.NewLambertian(tex), nil
	case material.BxdfMetal:
		albedo := material.DefaultAlbedo
		if mat.Albedo != nil {
			albedo = *mat.Albedo
		}
		return material.NewMetal(albedo, mat.Fuzz), nil
	case material.BxdfDielectric:
		ior := mat.IOR
		if mat.Medium != "" {
			var err error
			if ior, err = material.IOR(mat.Medium); err != nil {
				return nil, err
			}
		}
		if ior == 0 {
			ior = material.DefaultIOR
		}
		if ior < 0 {
			return nil, fmt.Errorf("invalid IOR %f", ior)
		}
		return material.NewDielectric(ior), nil
	case material.BxdfDiffuseLight:
		tex, err := sc.materialTexture(mat.Texture, mat.Emission, material.DefaultRadiance)
		if err != nil {
			return nil, err
		}
		return material.NewDiffuseLight(tex), nil
	default:
		tex, err := sc.materialTexture(mat.Texture, mat.Albedo, material.DefaultAlbedo)
		if err != nil {
			return nil, err
		}
		return material.NewIsotropic(tex), nil
	}
}

// Select the texture for a material parameter. A named texture takes
// precedence over a constant color; if neither is set the default is used.
func (sc *sceneCompiler) materialTexture(texName string, color *types.Vec3, def types.Vec3) (texture.Texture, error) {
	if texName != "" {
		return sc.resolveTexture(texName)
	}
	if color != nil {
		return texture.NewSolid(*color), nil
	}
	return texture.NewSolid(def), nil
}

// Build all scene primitives and partition the bounded ones into a BVH.
// Unbounded primitives (planes) are tested separately after the BVH.
func (sc *sceneCompiler) partitionGeometry() error {
	start := time.Now()
	sc.logger.Notice("partitioning geometry")

	bounded := make([]scene.Primitive, 0, len(sc.parsedScene.Primitives))
	unbounded := make(scene.PrimitiveList, 0)
	for index, def := range sc.parsedScene.Primitives {
		prim, err := sc.createPrimitive(def)
		if err != nil {
			return fmt.Errorf("compiler: primitive %d: %s", index, err.Error())
		}

		if err = sc.compiledScene.AddPrimitive(prim); err != nil {
			return err
		}
		if _, ok := prim.BBox(sc.compiledScene.Camera.ShutterOpen, sc.compiledScene.Camera.ShutterClose); ok {
			bounded = append(bounded, prim)
		} else {
			unbounded = append(unbounded, prim)
		}

		if def.Light {
			if err = sc.compiledScene.AddLight(prim); err != nil {
				return fmt.Errorf("compiler: primitive %d: %s", index, err.Error())
			}
		}
	}

	for index, def := range sc.parsedScene.Lights {
		light, err := sc.createPrimitive(def)
		if err != nil {
			return fmt.Errorf("compiler: light %d: %s", index, err.Error())
		}
		if err = sc.compiledScene.AddLight(light); err != nil {
			return fmt.Errorf("compiler: light %d: %s", index, err.Error())
		}
	}

	world := make(scene.PrimitiveList, 0, 1+len(unbounded))
	if len(bounded) != 0 {
		sc.logger.Infof("building scene BVH tree (%d primitives)", len(bounded))
		accel, err := bvh.NewAccelerator(bounded, sc.compiledScene.Camera.ShutterOpen, sc.compiledScene.Camera.ShutterClose, sc.rng)
		if err != nil {
			return err
		}
		world = append(world, accel)
	}
	world = append(world, unbounded...)

	switch len(world) {
	case 0:
	case 1:
		sc.compiledScene.World = world[0]
	default:
		sc.compiledScene.World = world
	}

	if !sc.compiledScene.HasLights() {
		sc.logger.Info("the scene defines no light sampling targets; falling back to pure material sampling")
		if sc.parsedScene.Background == (types.Vec3{}) && !sc.hasEmissiveMaterials() {
			sc.logger.Warning("the scene contains no emissive materials or background radiance; output will appear black!")
		}
	}

	sc.logger.Noticef("partitioned geometry in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

func (sc *sceneCompiler) hasEmissiveMaterials() bool {
	for _, mat := range sc.parsedScene.Materials {
		if mat.Used && material.BxdfTypeFromName(mat.Type) == material.BxdfDiffuseLight {
			return true
		}
	}
	return false
}

// Build a primitive from its definition and apply its transformations.
func (sc *sceneCompiler) createPrimitive(def *input.Primitive) (scene.Primitive, error) {
	mat, err := sc.lookupMaterial(def.Material)
	if err != nil {
		return nil, err
	}

	var prim scene.Primitive
	switch def.Type {
	case input.PrimSphere:
		if def.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius must be positive; got %f", def.Radius)
		}
		prim = primitive.NewSphere(def.Center, def.Radius, mat)
	case input.PrimMovingSphere:
		if def.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius must be positive; got %f", def.Radius)
		}
		if def.Time1 <= def.Time0 {
			return nil, fmt.Errorf("moving sphere requires time1 > time0")
		}
		prim = primitive.NewMovingSphere(def.Center, def.Center1, def.Time0, def.Time1, def.Radius, mat)
	case input.PrimXYRect, input.PrimXZRect, input.PrimYZRect:
		b := def.Bounds
		if b[1] <= b[0] || b[3] <= b[2] {
			return nil, fmt.Errorf("%s bounds must be increasing; got %v", def.Type, b)
		}
		switch def.Type {
		case input.PrimXYRect:
			prim = primitive.NewXYRect(b[0], b[1], b[2], b[3], def.K, mat)
		case input.PrimXZRect:
			prim = primitive.NewXZRect(b[0], b[1], b[2], b[3], def.K, mat)
		default:
			prim = primitive.NewYZRect(b[0], b[1], b[2], b[3], def.K, mat)
		}
	case input.PrimBox:
		if def.Min[0] >= def.Max[0] || def.Min[1] >= def.Max[1] || def.Min[2] >= def.Max[2] {
			return nil, fmt.Errorf("box min %v must be below max %v", def.Min, def.Max)
		}
		prim = primitive.NewBox(def.Min, def.Max, mat)
	case input.PrimPlane:
		if def.Normal.LenSq() == 0 {
			return nil, fmt.Errorf("plane normal must be non-zero")
		}
		prim = primitive.NewPlane(def.Point, def.Normal, mat)
	case input.PrimTriangle:
		if def.Normals != nil || def.UVs != nil {
			normals := def.Normals
			if normals == nil {
				faceNormal := def.Vertices[1].Sub(def.Vertices[0]).Cross(def.Vertices[2].Sub(def.Vertices[0]))
				normals = &[3]types.Vec3{faceNormal, faceNormal, faceNormal}
			}
			uvs := [3]types.Vec2{{0, 0}, {1, 0}, {0, 1}}
			if def.UVs != nil {
				uvs = *def.UVs
			}
			prim = primitive.NewSmoothTriangle(def.Vertices, *normals, uvs, mat)
		} else {
			prim = primitive.NewTriangle(def.Vertices[0], def.Vertices[1], def.Vertices[2], mat)
		}
	case input.PrimConstantMedium:
		if def.Boundary == nil {
			return nil, fmt.Errorf("constant medium requires a boundary primitive")
		}
		if def.Density <= 0 {
			return nil, fmt.Errorf("constant medium density must be positive; got %f", def.Density)
		}
		boundary, err := sc.createPrimitive(def.Boundary)
		if err != nil {
			return nil, fmt.Errorf("medium boundary: %s", err.Error())
		}
		if _, isotropic := mat.(*material.Isotropic); !isotropic {
			return nil, fmt.Errorf("constant medium requires an isotropic material")
		}
		prim = primitive.NewConstantMedium(boundary, def.Density, mat)
	default:
		return nil, fmt.Errorf("unsupported primitive type %q", def.Type)
	}

	if def.Flip {
		prim = primitive.NewFlipFace(prim)
	}

	for _, tr := range def.Transforms {
		switch tr.Type {
		case input.TransformTranslate:
			prim = primitive.NewTranslate(prim, tr.Offset)
		case input.TransformRotate:
			axis := tr.Axis
			if axis == (types.Vec3{}) {
				axis = types.Vec3{0, 1, 0}
			}
			prim = primitive.NewRotate(prim, axis, tr.Angle)
		default:
			return nil, fmt.Errorf("unsupported transform type %q", tr.Type)
		}
	}

	return prim, nil
}

func (sc *sceneCompiler) lookupMaterial(name string) (scene.Material, error) {
	if name == "" {
		return sc.defaultMaterial, nil
	}
	mat, exists := sc.materials[name]
	if !exists {
		return nil, fmt.Errorf("reference to undefined material %q", name)
	}
	if def := sc.parsedScene.Material(name); def != nil {
		def.Used = true
	}
	return mat, nil
}
