package texture

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/types"
)

// The Texture interface is implemented by all textures.
type Texture interface {
	// Get the texture color at surface coordinates (u, v) and world point p.
	Value(u, v float64, p types.Vec3) types.Vec3
}

// A texture with a constant color.
type Solid struct {
	Color types.Vec3
}

func NewSolid(color types.Vec3) *Solid {
	return &Solid{Color: color}
}

func (t *Solid) Value(_, _ float64, _ types.Vec3) types.Vec3 {
	return t.Color
}

// A 3-D checker pattern alternating between two textures.
type Checker struct {
	Even  Texture
	Odd   Texture
	Scale float64
}

// Create a checker with the default frequency of 10 cells per unit.
func NewChecker(even, odd Texture) *Checker {
	return &Checker{Even: even, Odd: odd, Scale: 10}
}

func (t *Checker) Value(u, v float64, p types.Vec3) types.Vec3 {
	sines := math.Sin(t.Scale*p[0]) * math.Sin(t.Scale*p[1]) * math.Sin(t.Scale*p[2])
	if sines < 0 {
		return t.Odd.Value(u, v, p)
	}
	return t.Even.Value(u, v, p)
}

// A marble-like texture driven by Perlin turbulence.
type Noise struct {
	Scale float64

	noise *Perlin
}

func NewNoise(scale float64, rng *rand.Rand) *Noise {
	return &Noise{Scale: scale, noise: NewPerlin(rng)}
}

func (t *Noise) Value(_, _ float64, p types.Vec3) types.Vec3 {
	return types.Splat(0.5 * (1 + math.Sin(t.Scale*p[2]+10*t.noise.Turbulence(p.Mul(t.Scale), 7))))
}
