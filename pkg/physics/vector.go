// pkg/physics/vector.go
package physics

import "math"

// Vector3D represents a 3D vector. In model space X points right, Y points
// forward and Z points up.
type Vector3D struct {
	X float64
	Y float64
	Z float64
}

// Common unit vectors in model space.
var (
	UnitX = Vector3D{X: 1}
	UnitY = Vector3D{Y: 1}
	UnitZ = Vector3D{Z: 1}
)

// Add returns the sum of two vectors
func (v Vector3D) Add(other Vector3D) Vector3D {
	return Vector3D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub returns the difference between two vectors
func (v Vector3D) Sub(other Vector3D) Vector3D {
	return Vector3D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector3D) Scale(factor float64) Vector3D {
	return Vector3D{
		X: v.X * factor,
		Y: v.Y * factor,
		Z: v.Z * factor,
	}
}

// Neg returns the opposite vector
func (v Vector3D) Neg() Vector3D {
	return Vector3D{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Length returns the magnitude of the vector
func (v Vector3D) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector3D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns a unit vector in the same direction
func (v Vector3D) Normalize() Vector3D {
	length := v.Length()
	if length == 0 {
		return Vector3D{}
	}
	return v.Scale(1 / length)
}

// Distance returns the distance between two vectors
func (v Vector3D) Distance(other Vector3D) float64 {
	return v.Sub(other).Length()
}

// Dot returns the dot product of two vectors
func (v Vector3D) Dot(other Vector3D) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product v × other
func (v Vector3D) Cross(other Vector3D) Vector3D {
	return Vector3D{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// IsZero reports whether all components are zero
func (v Vector3D) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
