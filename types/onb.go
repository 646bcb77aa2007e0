package types

import "math"

// An orthonormal basis whose W axis is aligned with a given direction.
type ONB struct {
	U, V, W Vec3
}

// Build a right-handed orthonormal basis around n.
func NewONB(n Vec3) ONB {
	w := n.Normalize()

	a := Vec3{1, 0, 0}
	if math.Abs(w[0]) > 0.9 {
		a = Vec3{0, 1, 0}
	}

	u := w.Cross(a).Normalize()
	v := w.Cross(u)
	return ONB{U: u, V: v, W: w}
}

// Map a vector expressed in basis coordinates to world space.
func (b ONB) ToWorld(a Vec3) Vec3 {
	return b.U.Mul(a[0]).Add(b.V.Mul(a[1])).Add(b.W.Mul(a[2]))
}
