package core

import "math"

// Matrix3x3 is a 3x3 matrix stored as three column vectors
type Matrix3x3[T Number] [3]Vector[T]

// Rotation is the real-valued matrix used for camera orbits
type Rotation = Matrix3x3[float64]

// IdentityMatrix returns the 3x3 identity
func IdentityMatrix() Rotation {
	return Rotation{
		NewVec3(1, 0, 0),
		NewVec3(0, 1, 0),
		NewVec3(0, 0, 1),
	}
}

// Apply multiplies the matrix by a vector: Σ column[k] * v[k]
func (m Matrix3x3[T]) Apply(v Vector[T]) Vector[T] {
	return m[0].Multiply(v.X).Add(m[1].Multiply(v.Y)).Add(m[2].Multiply(v.Z))
}

// MatrixMul composes two matrices by pushing the right matrix's columns through the left
func MatrixMul[T Number](left, right Matrix3x3[T]) Matrix3x3[T] {
	return Matrix3x3[T]{
		left.Apply(right[0]),
		left.Apply(right[1]),
		left.Apply(right[2]),
	}
}

// RotationY returns a rotation about the world Y axis (horizontal orbit)
func RotationY(degrees float64) Rotation {
	sin, cos := math.Sincos(DegreesToRadians(degrees))
	return Rotation{
		NewVec3(cos, 0, -sin),
		NewVec3(0, 1, 0),
		NewVec3(sin, 0, cos),
	}
}

// RotationX returns a rotation about the world X axis (vertical orbit)
func RotationX(degrees float64) Rotation {
	sin, cos := math.Sincos(DegreesToRadians(degrees))
	return Rotation{
		NewVec3(1, 0, 0),
		NewVec3(0, cos, sin),
		NewVec3(0, -sin, cos),
	}
}

// DegreesToRadians converts an angle in degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
