package types

import "math"

// A rotation quaternion.
type Quat struct {
	V Vec3
	W float64
}

// Create identity quaternion.
func QuatIdent() Quat {
	return Quat{W: 1.0}
}

// Create a quaternion that rotates by angle (in radians) around axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	sin, cos := math.Sincos(angle * 0.5)
	return Quat{
		V: axis.Normalize().Mul(sin),
		W: cos,
	}
}

// Rotate a vector by the rotation this quaternion represents.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v + 2q_w * (q_v x v) + 2q_v x (q_v x v)
	cross := q.V.Cross(v)
	return v.Add(cross.Mul(2 * q.W)).Add(q.V.Mul(2).Cross(cross))
}

// Multiply two quaternions. The product applies q2 first and then q.
func (q Quat) Mul(q2 Quat) Quat {
	return Quat{
		q.V.Cross(q2.V).Add(q2.V.Mul(q.W)).Add(q.V.Mul(q2.W)),
		q.W*q2.W - q.V.Dot(q2.V),
	}
}

// Get the quaternion norm.
func (q Quat) Len() float64 {
	return math.Sqrt(q.W*q.W + q.V.LenSq())
}

// The inverse of a quaternion is its conjugate divided by its squared norm.
func (q Quat) Inverse() Quat {
	scaler := 1.0 / (q.V.LenSq() + q.W*q.W)
	return Quat{
		q.V.Mul(-scaler),
		q.W * scaler,
	}
}
