package texture

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/types"
)

const perlinPointCount = 256

// Perlin gradient noise generator.
type Perlin struct {
	randVec [perlinPointCount]types.Vec3
	permX   [perlinPointCount]int
	permY   [perlinPointCount]int
	permZ   [perlinPointCount]int
}

// Create a noise generator seeded from rng.
func NewPerlin(rng *rand.Rand) *Perlin {
	p := &Perlin{}
	for i := range p.randVec {
		p.randVec[i] = types.RandVec3(rng, -1, 1).Normalize()
	}
	generatePerm(&p.permX, rng)
	generatePerm(&p.permY, rng)
	generatePerm(&p.permZ, rng)
	return p
}

// Evaluate noise at p. The result lies in [-1, 1].
func (pn *Perlin) Noise(p types.Vec3) float64 {
	fx, fy, fz := math.Floor(p[0]), math.Floor(p[1]), math.Floor(p[2])
	u, v, w := p[0]-fx, p[1]-fy, p[2]-fz
	i, j, k := int(fx), int(fy), int(fz)

	var c [2][2][2]types.Vec3
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			for dk := 0; dk < 2; dk++ {
				c[di][dj][dk] = pn.randVec[pn.permX[(i+di)&255]^pn.permY[(j+dj)&255]^pn.permZ[(k+dk)&255]]
			}
		}
	}

	return perlinInterp(&c, u, v, w)
}

// Sum depth octaves of noise with halving weights.
func (pn *Perlin) Turbulence(p types.Vec3, depth int) float64 {
	accum := 0.0
	weight := 1.0
	for i := 0; i < depth; i++ {
		accum += weight * pn.Noise(p)
		weight *= 0.5
		p = p.Mul(2)
	}
	return math.Abs(accum)
}

func generatePerm(perm *[perlinPointCount]int, rng *rand.Rand) {
	for i := range perm {
		perm[i] = i
	}
	for i := len(perm) - 1; i > 0; i-- {
		target := rng.Intn(i + 1)
		perm[i], perm[target] = perm[target], perm[i]
	}
}

func perlinInterp(c *[2][2][2]types.Vec3, u, v, w float64) float64 {
	// Hermite smoothing
	uu := u * u * (3 - 2*u)
	vv := v * v * (3 - 2*v)
	ww := w * w * (3 - 2*w)

	accum := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				fi, fj, fk := float64(i), float64(j), float64(k)
				weight := types.Vec3{u - fi, v - fj, w - fk}
				accum += (fi*uu + (1-fi)*(1-uu)) *
					(fj*vv + (1-fj)*(1-vv)) *
					(fk*ww + (1-fk)*(1-ww)) *
					c[i][j][k].Dot(weight)
			}
		}
	}
	return accum
}
