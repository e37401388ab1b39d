package fixed

import "math"

// lutSteps is the number of angle steps per full turn in the sine table.
const lutSteps = 2048

var sinLUT [lutSteps + 1]int16

func init() {
	for i := range sinLUT {
		sinLUT[i] = int16(math.Round(math.Sin(2*math.Pi*float64(i)/lutSteps) * one))
	}
}

var degrees360 = FromInt(360)

// SafeDegreesAngle wraps any angle into [0, 360).
func SafeDegreesAngle(angle Fixed) Fixed {
	angle %= degrees360
	if angle < 0 {
		angle += degrees360
	}
	return angle
}

// DegreesSinCos returns sin and cos of an angle in degrees [0..360] as 4.12
// values read from the lookup table.
func DegreesSinCos(angle Fixed) (sin, cos int16) {
	if angle == 0 {
		return 0, one
	}
	idx := int((int64(angle)*lutSteps + int64(degrees360)/2) / int64(degrees360))
	idx &= lutSteps - 1
	return sinLUT[idx], sinLUT[(idx+lutSteps/4)&(lutSteps-1)]
}

// Reciprocal16 returns 1/n with 16 fractional bits.
func Reciprocal16(n int) int {
	if n <= 0 {
		return 0
	}
	return (1 << 16) / n
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
