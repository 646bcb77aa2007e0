package builtin

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/achilleasa/lumen/asset/compiler/input"
	"github.com/achilleasa/lumen/types"
)

// A builtin scene generator.
type Entry struct {
	Name        string
	Description string

	generate func(rng *rand.Rand) *input.Scene
}

var catalogue = map[string]Entry{}

func register(name, description string, generate func(rng *rand.Rand) *input.Scene) {
	catalogue[name] = Entry{Name: name, Description: description, generate: generate}
}

// Generate a builtin scene. Scenes that place geometry at random draw from rng.
func Generate(name string, rng *rand.Rand) (*input.Scene, error) {
	entry, exists := catalogue[name]
	if !exists {
		return nil, fmt.Errorf("builtin: unknown scene %q", name)
	}
	return entry.generate(rng), nil
}

// List the catalogue entries sorted by name.
func List() []Entry {
	entries := make([]Entry, 0, len(catalogue))
	for _, entry := range catalogue {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

var skyBackground = types.Vec3{0.70, 0.80, 1.00}

func vec(x, y, z float64) *types.Vec3 {
	return &types.Vec3{x, y, z}
}

func lambertian(name string, albedo types.Vec3) *input.Material {
	return &input.Material{Name: name, Type: "lambertian", Albedo: &albedo}
}

func light(name string, radiance float64) *input.Material {
	return &input.Material{Name: name, Type: "diffuseLight", Emission: vec(radiance, radiance, radiance)}
}

func sphere(center types.Vec3, radius float64, mat string) *input.Primitive {
	return &input.Primitive{Type: input.PrimSphere, Center: center, Radius: radius, Material: mat}
}

func box(min, max types.Vec3, mat string, angleY float64, offset types.Vec3) *input.Primitive {
	return &input.Primitive{
		Type: input.PrimBox, Min: min, Max: max, Material: mat,
		Transforms: []input.Transform{
			{Type: input.TransformRotate, Axis: types.Vec3{0, 1, 0}, Angle: angleY},
			{Type: input.TransformTranslate, Offset: offset},
		},
	}
}

func init() {
	register("random-spheres", "a ground plane covered with random diffuse, metal and glass spheres", randomSpheres)
	register("two-perlin-spheres", "two spheres with Perlin noise textures", twoPerlinSpheres)
	register("simple-light", "Perlin spheres lit by a rectangle and a spherical light", simpleLight)
	register("cornell", "the Cornell box with two rotated blocks", cornell)
	register("cornell-smoke", "the Cornell box with blocks of black and white smoke", cornellSmoke)
	register("final", "a showcase of every primitive, material and texture", final)
}

func randomSpheres(rng *rand.Rand) *input.Scene {
	sc := input.NewScene()
	sc.Camera = &input.Camera{
		LookFrom:     types.Vec3{13, 2, 3},
		LookAt:       types.Vec3{0, 0, 0},
		Up:           types.Vec3{0, 1, 0},
		FOV:          20,
		Aperture:     0.1,
		FocusDist:    10,
		ShutterClose: 1,
	}
	sc.Background = skyBackground
	sc.Render = &input.RenderOptions{Width: 1200, Height: 675, SamplesPerPixel: 100}
	sc.Textures = []*input.Texture{
		{Name: "green", Type: input.TextureSolid, Color: types.Vec3{0.2, 0.3, 0.1}},
		{Name: "white", Type: input.TextureSolid, Color: types.Vec3{0.9, 0.9, 0.9}},
		{Name: "ground", Type: input.TextureChecker, Even: "green", Odd: "white"},
	}
	sc.Materials = []*input.Material{
		{Name: "ground", Type: "lambertian", Texture: "ground"},
		{Name: "glass", Type: "dielectric", IOR: 1.5},
		lambertian("brown", types.Vec3{0.7, 0.6, 0.5}),
		{Name: "mirror", Type: "metal", Albedo: vec(0.7, 0.6, 0.5)},
	}
	sc.Primitives = append(sc.Primitives, sphere(types.Vec3{0, -1000, 0}, 1000, "ground"))

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := rng.Float64()
			center := types.Vec3{float64(a) + 0.9*rng.Float64(), 0.2, float64(b) + 0.9*rng.Float64()}
			if center.Sub(types.Vec3{4, 0.2, 0}).Len() <= 0.9 {
				continue
			}

			matName := fmt.Sprintf("sphere-%d-%d", a, b)
			switch {
			case chooseMat < 0.8:
				albedo := types.RandVec3(rng, 0, 1).MulVec(types.RandVec3(rng, 0, 1))
				sc.Materials = append(sc.Materials, lambertian(matName, albedo))
				if rng.Float64() < 0.5 {
					sc.Primitives = append(sc.Primitives, sphere(center, 0.2, matName))
				} else {
					sc.Primitives = append(sc.Primitives, &input.Primitive{
						Type:     input.PrimMovingSphere,
						Center:   center,
						Center1:  center.Add(types.Vec3{0, types.RandRange(rng, 0, 0.5), 0}),
						Time0:    0,
						Time1:    1,
						Radius:   0.2,
						Material: matName,
					})
				}
			case chooseMat < 0.95:
				albedo := types.RandVec3(rng, 0.5, 1)
				sc.Materials = append(sc.Materials, &input.Material{
					Name: matName, Type: "metal", Albedo: &albedo, Fuzz: types.RandRange(rng, 0, 0.5),
				})
				sc.Primitives = append(sc.Primitives, sphere(center, 0.2, matName))
			default:
				sc.Primitives = append(sc.Primitives, sphere(center, 0.2, "glass"))
			}
		}
	}

	sc.Primitives = append(sc.Primitives,
		sphere(types.Vec3{0, 1, 0}, 1, "glass"),
		sphere(types.Vec3{-4, 1, 0}, 1, "brown"),
		sphere(types.Vec3{4, 1, 0}, 1, "mirror"),
	)
	return sc
}

func perlinGround(sc *input.Scene) {
	sc.Textures = append(sc.Textures, &input.Texture{Name: "noise", Type: input.TextureNoise, Scale: 4})
	sc.Materials = append(sc.Materials, &input.Material{Name: "noise", Type: "lambertian", Texture: "noise"})
	sc.Primitives = append(sc.Primitives,
		sphere(types.Vec3{0, -1000, 0}, 1000, "noise"),
		sphere(types.Vec3{0, 2, 0}, 2, "noise"),
	)
}

func twoPerlinSpheres(_ *rand.Rand) *input.Scene {
	sc := input.NewScene()
	sc.Camera = &input.Camera{
		LookFrom: types.Vec3{13, 2, 3},
		LookAt:   types.Vec3{0, 0, 0},
		Up:       types.Vec3{0, 1, 0},
		FOV:      20,
	}
	sc.Background = skyBackground
	sc.Render = &input.RenderOptions{Width: 400, Height: 225}
	perlinGround(sc)
	return sc
}

func simpleLight(_ *rand.Rand) *input.Scene {
	sc := input.NewScene()
	sc.Camera = &input.Camera{
		LookFrom: types.Vec3{26, 3, 6},
		LookAt:   types.Vec3{0, 2, 0},
		Up:       types.Vec3{0, 1, 0},
		FOV:      20,
	}
	sc.Render = &input.RenderOptions{Width: 400, Height: 225, SamplesPerPixel: 400}
	perlinGround(sc)

	sc.Materials = append(sc.Materials, light("light", 4))
	sc.Primitives = append(sc.Primitives,
		&input.Primitive{Type: input.PrimXYRect, Bounds: [4]float64{3, 5, 1, 3}, K: -2, Material: "light", Light: true},
		&input.Primitive{Type: input.PrimSphere, Center: types.Vec3{0, 7, 0}, Radius: 2, Material: "light", Light: true},
	)
	return sc
}

// The empty Cornell box (walls and light) shared by the Cornell scenes.
func cornellBox() *input.Scene {
	sc := input.NewScene()
	sc.Camera = &input.Camera{
		LookFrom: types.Vec3{278, 278, -800},
		LookAt:   types.Vec3{278, 278, 0},
		Up:       types.Vec3{0, 1, 0},
		FOV:      40,
	}
	sc.Render = &input.RenderOptions{Width: 600, Height: 600, SamplesPerPixel: 200}
	sc.Materials = []*input.Material{
		lambertian("red", types.Vec3{0.65, 0.05, 0.05}),
		lambertian("white", types.Vec3{0.73, 0.73, 0.73}),
		lambertian("green", types.Vec3{0.12, 0.45, 0.15}),
		light("light", 15),
	}
	sc.Primitives = []*input.Primitive{
		{Type: input.PrimYZRect, Bounds: [4]float64{0, 555, 0, 555}, K: 555, Material: "green"},
		{Type: input.PrimYZRect, Bounds: [4]float64{0, 555, 0, 555}, K: 0, Material: "red"},
		{Type: input.PrimXZRect, Bounds: [4]float64{213, 343, 227, 332}, K: 554, Material: "light", Flip: true, Light: true},
		{Type: input.PrimXZRect, Bounds: [4]float64{0, 555, 0, 555}, K: 0, Material: "white"},
		{Type: input.PrimXZRect, Bounds: [4]float64{0, 555, 0, 555}, K: 555, Material: "white"},
		{Type: input.PrimXYRect, Bounds: [4]float64{0, 555, 0, 555}, K: 555, Material: "white"},
	}
	return sc
}

func cornell(_ *rand.Rand) *input.Scene {
	sc := cornellBox()
	sc.Primitives = append(sc.Primitives,
		box(types.Vec3{0, 0, 0}, types.Vec3{165, 330, 165}, "white", 15, types.Vec3{265, 0, 295}),
		box(types.Vec3{0, 0, 0}, types.Vec3{165, 165, 165}, "white", -18, types.Vec3{130, 0, 65}),
	)
	return sc
}

func cornellSmoke(_ *rand.Rand) *input.Scene {
	sc := cornellBox()
	sc.Materials = append(sc.Materials,
		&input.Material{Name: "black-smoke", Type: "isotropic", Albedo: vec(0, 0, 0)},
		&input.Material{Name: "white-smoke", Type: "isotropic", Albedo: vec(1, 1, 1)},
	)
	sc.Primitives = append(sc.Primitives,
		&input.Primitive{
			Type: input.PrimConstantMedium, Density: 0.01, Material: "black-smoke",
			Boundary: box(types.Vec3{0, 0, 0}, types.Vec3{165, 330, 165}, "white", 15, types.Vec3{265, 0, 295}),
		},
		&input.Primitive{
			Type: input.PrimConstantMedium, Density: 0.01, Material: "white-smoke",
			Boundary: box(types.Vec3{0, 0, 0}, types.Vec3{165, 165, 165}, "white", -18, types.Vec3{130, 0, 65}),
		},
	)
	return sc
}

func final(rng *rand.Rand) *input.Scene {
	sc := input.NewScene()
	sc.Camera = &input.Camera{
		LookFrom:     types.Vec3{478, 278, -600},
		LookAt:       types.Vec3{278, 278, 0},
		Up:           types.Vec3{0, 1, 0},
		FOV:          40,
		ShutterClose: 1,
	}
	sc.Render = &input.RenderOptions{Width: 800, Height: 800, SamplesPerPixel: 1000}
	sc.Textures = []*input.Texture{
		{Name: "noise", Type: input.TextureNoise, Scale: 0.1},
		{Name: "blue", Type: input.TextureSolid, Color: types.Vec3{0.2, 0.4, 0.9}},
		{Name: "sand", Type: input.TextureSolid, Color: types.Vec3{0.9, 0.8, 0.6}},
		{Name: "globe", Type: input.TextureChecker, Even: "blue", Odd: "sand"},
	}
	sc.Materials = []*input.Material{
		lambertian("ground", types.Vec3{0.48, 0.83, 0.53}),
		light("light", 7),
		lambertian("orange", types.Vec3{0.7, 0.3, 0.1}),
		{Name: "glass", Type: "dielectric", IOR: 1.5},
		{Name: "brushed", Type: "metal", Albedo: vec(0.8, 0.8, 0.9), Fuzz: 1},
		{Name: "blue-mist", Type: "isotropic", Albedo: vec(0.2, 0.4, 0.9)},
		{Name: "fog", Type: "isotropic", Albedo: vec(1, 1, 1)},
		{Name: "globe", Type: "lambertian", Texture: "globe"},
		{Name: "marble", Type: "lambertian", Texture: "noise"},
		lambertian("white", types.Vec3{0.73, 0.73, 0.73}),
	}

	const boxesPerSide = 20
	for i := 0; i < boxesPerSide; i++ {
		for j := 0; j < boxesPerSide; j++ {
			w := 100.0
			x0 := -1000.0 + float64(i)*w
			z0 := -1000.0 + float64(j)*w
			y1 := types.RandRange(rng, 1, 101)
			sc.Primitives = append(sc.Primitives, &input.Primitive{
				Type: input.PrimBox, Min: types.Vec3{x0, 0, z0}, Max: types.Vec3{x0 + w, y1, z0 + w}, Material: "ground",
			})
		}
	}

	center := types.Vec3{400, 400, 200}
	sc.Primitives = append(sc.Primitives,
		&input.Primitive{Type: input.PrimXZRect, Bounds: [4]float64{123, 423, 147, 412}, K: 554, Material: "light", Flip: true, Light: true},
		&input.Primitive{
			Type: input.PrimMovingSphere, Center: center, Center1: center.Add(types.Vec3{30, 0, 0}),
			Time0: 0, Time1: 1, Radius: 50, Material: "orange",
		},
		sphere(types.Vec3{260, 150, 45}, 50, "glass"),
		sphere(types.Vec3{0, 150, 145}, 50, "brushed"),
		sphere(types.Vec3{360, 150, 145}, 70, "glass"),
		&input.Primitive{
			Type: input.PrimConstantMedium, Density: 0.2, Material: "blue-mist",
			Boundary: sphere(types.Vec3{360, 150, 145}, 70, "glass"),
		},
		&input.Primitive{
			Type: input.PrimConstantMedium, Density: 0.0001, Material: "fog",
			Boundary: sphere(types.Vec3{0, 0, 0}, 5000, "glass"),
		},
		sphere(types.Vec3{400, 200, 400}, 100, "globe"),
		sphere(types.Vec3{220, 280, 300}, 80, "marble"),
	)

	for i := 0; i < 1000; i++ {
		sc.Primitives = append(sc.Primitives, &input.Primitive{
			Type: input.PrimSphere, Center: types.RandVec3(rng, 0, 165), Radius: 10, Material: "white",
			Transforms: []input.Transform{
				{Type: input.TransformRotate, Axis: types.Vec3{0, 1, 0}, Angle: 15},
				{Type: input.TransformTranslate, Offset: types.Vec3{-100, 270, 395}},
			},
		})
	}

	return sc
}
