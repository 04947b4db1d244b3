package vector

import (
	"fmt"
	"math"
)

// Vector2D is a point or displacement in simulation space.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Zero is the additive identity.
var Zero = Vector2D{}

func New(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// Add folds others into v from left to right.
func (v Vector2D) Add(others ...Vector2D) Vector2D {
	for _, o := range others {
		v = Vector2D{X: v.X + o.X, Y: v.Y + o.Y}
	}
	return v
}

func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2D) Scale(s float64) Vector2D {
	return Vector2D{X: v.X * s, Y: v.Y * s}
}

func (v Vector2D) Dot(o Vector2D) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Hadamard returns the component-wise product.
func (v Vector2D) Hadamard(o Vector2D) Vector2D {
	return Vector2D{X: v.X * o.X, Y: v.Y * o.Y}
}

// Cross returns the z component of the 3D cross product of v and o.
func (v Vector2D) Cross(o Vector2D) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vector2D) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector2D) Distance(o Vector2D) float64 {
	return o.Sub(v).Magnitude()
}

// Normalize returns the unit vector along v, or the zero vector when v is zero.
func (v Vector2D) Normalize() Vector2D {
	m := v.Magnitude()
	if m == 0 {
		return Zero
	}
	return Vector2D{X: v.X / m, Y: v.Y / m}
}

func (v Vector2D) Neg() Vector2D {
	return Vector2D{X: -v.X, Y: -v.Y}
}

func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector2D) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vector2D) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
