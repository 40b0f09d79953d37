package core

import (
	"fmt"
	"math"
)

// Number is the set of component types a Vector can hold: 8-bit channels for
// output pixels and float64 for geometry and light intensities.
type Number interface {
	uint8 | float64
}

// Vector represents a 3-component value: a point, a direction or a color
type Vector[T Number] struct {
	X, Y, Z T
}

// Vec3 is a real-valued vector used for points, directions and light colors (0.0-1.0)
type Vec3 = Vector[float64]

// PixelColor is an 8-bit RGB color (0-255 per channel)
type PixelColor = Vector[uint8]

// NewVector creates a new Vector
func NewVector[T Number](x, y, z T) Vector[T] {
	return Vector[T]{X: x, Y: y, Z: z}
}

// NewVec3 creates a new real-valued vector
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// NewPixelColor creates a new 8-bit color
func NewPixelColor(r, g, b uint8) PixelColor {
	return PixelColor{X: r, Y: g, Z: b}
}

// saturates reports whether T is an integer channel type that must clamp
// instead of wrapping.
func saturates[T Number]() bool {
	var zero T
	_, ok := any(zero).(uint8)
	return ok
}

// fromFloat converts a float64 into T, clamping into [0,255] and truncating for uint8
func fromFloat[T Number](f float64) T {
	if saturates[T]() {
		if f <= 0 || math.IsNaN(f) {
			return 0
		}
		if f >= math.MaxUint8 {
			return T(math.MaxUint8)
		}
	}
	return T(f)
}

// Add returns the sum of two vectors. Integer channels saturate at 255.
func (v Vector[T]) Add(other Vector[T]) Vector[T] {
	if saturates[T]() {
		return Vector[T]{
			X: fromFloat[T](float64(v.X) + float64(other.X)),
			Y: fromFloat[T](float64(v.Y) + float64(other.Y)),
			Z: fromFloat[T](float64(v.Z) + float64(other.Z)),
		}
	}
	return Vector[T]{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors. Integer channels saturate at 0.
func (v Vector[T]) Subtract(other Vector[T]) Vector[T] {
	if saturates[T]() {
		return Vector[T]{
			X: fromFloat[T](float64(v.X) - float64(other.X)),
			Y: fromFloat[T](float64(v.Y) - float64(other.Y)),
			Z: fromFloat[T](float64(v.Z) - float64(other.Z)),
		}
	}
	return Vector[T]{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vector[T]) Multiply(scalar T) Vector[T] {
	if saturates[T]() {
		s := float64(scalar)
		return Vector[T]{
			X: fromFloat[T](float64(v.X) * s),
			Y: fromFloat[T](float64(v.Y) * s),
			Z: fromFloat[T](float64(v.Z) * s),
		}
	}
	return Vector[T]{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vector[T]) MultiplyVec(other Vector[T]) Vector[T] {
	if saturates[T]() {
		return Vector[T]{
			X: fromFloat[T](float64(v.X) * float64(other.X)),
			Y: fromFloat[T](float64(v.Y) * float64(other.Y)),
			Z: fromFloat[T](float64(v.Z) * float64(other.Z)),
		}
	}
	return Vector[T]{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

// Divide returns the vector divided by a scalar.
// Integer division by zero saturates instead of panicking.
func (v Vector[T]) Divide(scalar T) Vector[T] {
	if saturates[T]() {
		s := float64(scalar)
		return Vector[T]{
			X: fromFloat[T](float64(v.X) / s),
			Y: fromFloat[T](float64(v.Y) / s),
			Z: fromFloat[T](float64(v.Z) / s),
		}
	}
	return Vector[T]{v.X / scalar, v.Y / scalar, v.Z / scalar}
}

// DivideVec returns component-wise division of two vectors
func (v Vector[T]) DivideVec(other Vector[T]) Vector[T] {
	if saturates[T]() {
		return Vector[T]{
			X: fromFloat[T](float64(v.X) / float64(other.X)),
			Y: fromFloat[T](float64(v.Y) / float64(other.Y)),
			Z: fromFloat[T](float64(v.Z) / float64(other.Z)),
		}
	}
	return Vector[T]{v.X / other.X, v.Y / other.Y, v.Z / other.Z}
}

// Dot returns the dot product of two vectors, evaluated in float64
func (v Vector[T]) Dot(other Vector[T]) float64 {
	return float64(v.X)*float64(other.X) + float64(v.Y)*float64(other.Y) + float64(v.Z)*float64(other.Z)
}

// Cross returns the cross product of two vectors
func (v Vector[T]) Cross(other Vector[T]) Vector[T] {
	vx, vy, vz := float64(v.X), float64(v.Y), float64(v.Z)
	ox, oy, oz := float64(other.X), float64(other.Y), float64(other.Z)
	return Vector[T]{
		X: fromFloat[T](vy*oz - vz*oy),
		Y: fromFloat[T](vz*ox - vx*oz),
		Z: fromFloat[T](vx*oy - vy*ox),
	}
}

// Square returns component-wise squares of the vector
func (v Vector[T]) Square() Vector[T] {
	return v.MultiplyVec(v)
}

// Sum returns the sum of the components, evaluated in float64
func (v Vector[T]) Sum() float64 {
	return float64(v.X) + float64(v.Y) + float64(v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vector[T]) LengthSquared() float64 {
	return v.Dot(v)
}

// Length returns the magnitude of the vector
func (v Vector[T]) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalize scales the vector in place to unit length.
// The zero vector is left unchanged.
func (v *Vector[T]) Normalize() {
	length := v.Length()
	if length == 0 {
		return
	}
	v.X = fromFloat[T](float64(v.X) / length)
	v.Y = fromFloat[T](float64(v.Y) / length)
	v.Z = fromFloat[T](float64(v.Z) / length)
}

// Normalized returns a unit vector in the same direction
func (v Vector[T]) Normalized() Vector[T] {
	v.Normalize()
	return v
}

// Negate returns the negative of the vector
func (v Vector[T]) Negate() Vector[T] {
	return Vector[T]{
		X: fromFloat[T](-float64(v.X)),
		Y: fromFloat[T](-float64(v.Y)),
		Z: fromFloat[T](-float64(v.Z)),
	}
}

// ToVec3 converts the vector to real-valued components
func (v Vector[T]) ToVec3() Vec3 {
	return Vec3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// Array returns the components as an array
func (v Vector[T]) Array() [3]T {
	return [3]T{v.X, v.Y, v.Z}
}

// VectorFromArray builds a vector from an array of components
func VectorFromArray[T Number](a [3]T) Vector[T] {
	return Vector[T]{X: a[0], Y: a[1], Z: a[2]}
}

// String formats the vector for logs
func (v Vector[T]) String() string {
	return fmt.Sprintf("x: %v, y: %v, z: %v", v.X, v.Y, v.Z)
}
