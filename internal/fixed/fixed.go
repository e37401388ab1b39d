package fixed

import (
	"fmt"
	"math"
)

// Precision is the number of fractional bits of Fixed.
const Precision = 12

const one = 1 << Precision

// Fixed is a signed fixed-point number with 12 fractional bits.
type Fixed int32

// FromInt converts an integer to Fixed.
func FromInt(v int) Fixed { return Fixed(v << Precision) }

// FromFloat converts a float to Fixed, rounding to the nearest step.
func FromFloat(v float64) Fixed { return Fixed(math.Round(v * one)) }

// FromData wraps a raw 20.12 value.
func FromData(data int32) Fixed { return Fixed(data) }

// Data returns the raw 20.12 value.
func (f Fixed) Data() int32 { return int32(f) }

// Integer returns the integer part, truncating toward zero.
func (f Fixed) Integer() int {
	if f < 0 {
		return -int(-f >> Precision)
	}
	return int(f >> Precision)
}

// RightShiftInteger returns the integer part rounded toward negative infinity.
// It is what the hardware sees when a position is committed.
func (f Fixed) RightShiftInteger() int { return int(f >> Precision) }

// Fraction returns the fractional bits.
func (f Fixed) Fraction() int32 { return int32(f) & (one - 1) }

func (f Fixed) Mul(o Fixed) Fixed { return Fixed((int64(f) * int64(o)) >> Precision) }

func (f Fixed) MulInt(v int) Fixed { return Fixed(int64(f) * int64(v)) }

func (f Fixed) Div(o Fixed) Fixed { return Fixed((int64(f) << Precision) / int64(o)) }

func (f Fixed) DivInt(v int) Fixed { return Fixed(int64(f) / int64(v)) }

func (f Fixed) Float() float64 { return float64(f) / one }

// Shift converts to another precision, e.g. Shift(8) gives the 8 fractional
// bit value the matrix registers use.
func (f Fixed) Shift(precision int) int32 {
	if precision >= Precision {
		return int32(f) << (precision - Precision)
	}
	return int32(f) >> (Precision - precision)
}

func (f Fixed) String() string { return fmt.Sprintf("%.4f", f.Float()) }

// Point is a 2D position in Fixed coordinates.
type Point struct {
	X, Y Fixed
}

func NewPoint(x, y Fixed) Point { return Point{X: x, Y: y} }

func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }

func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

// Floor returns the integer position the hardware uses.
func (p Point) Floor() IntPoint {
	return IntPoint{X: p.X.RightShiftInteger(), Y: p.Y.RightShiftInteger()}
}

// IntPoint is an integer position, usually in pixels or tiles.
type IntPoint struct {
	X, Y int
}

// Size holds dimensions, in tiles for maps and in pixels otherwise.
type Size struct {
	Width, Height int
}

func (s Size) Scale(n int) Size { return Size{Width: s.Width * n, Height: s.Height * n} }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }
