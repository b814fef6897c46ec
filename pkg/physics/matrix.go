package physics

import "math"

// Mat3 is a 3x3 row-major matrix. Orientation matrices store the model-space
// basis vectors (right, forward, up) as their columns.
type Mat3 [9]float64

// Identity returns the identity matrix
func Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// RotationX returns a rotation of angle radians around the X axis (pitch).
func RotationX(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotationY returns a rotation of angle radians around the Y axis (roll).
func RotationY(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotationZ returns a rotation of angle radians around the Z axis (yaw).
func RotationZ(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// AxisAngle returns a rotation of angle radians around the given unit axis.
func AxisAngle(axis Vector3D, angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z
	return Mat3{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c,
	}
}

// Mul returns m × other
func (m Mat3) Mul(other Mat3) Mat3 {
	var r Mat3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = m[row*3]*other[col] + m[row*3+1]*other[3+col] + m[row*3+2]*other[6+col]
		}
	}
	return r
}

// MulVec returns m × v
func (m Mat3) MulVec(v Vector3D) Vector3D {
	return Vector3D{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transposed matrix, which is the inverse for rotations.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Column returns the i-th column vector.
func (m Mat3) Column(i int) Vector3D {
	return Vector3D{X: m[i], Y: m[3+i], Z: m[6+i]}
}

// Orthonormalize re-orthogonalizes a rotation matrix that accumulated
// floating point drift during integration.
func (m Mat3) Orthonormalize() Mat3 {
	forward := m.Column(1).Normalize()
	up := m.Column(2)
	right := forward.Cross(up).Normalize()
	up = right.Cross(forward).Normalize()
	return Mat3{
		right.X, forward.X, up.X,
		right.Y, forward.Y, up.Y,
		right.Z, forward.Z, up.Z,
	}
}
