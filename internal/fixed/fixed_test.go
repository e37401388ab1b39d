package fixed

import "testing"

func TestIntegerConversions(t *testing.T) {
	v := FromFloat(-1.5)
	if got := v.Integer(); got != -1 {
		t.Fatalf("Integer(-1.5) = %d, want -1", got)
	}
	if got := v.RightShiftInteger(); got != -2 {
		t.Fatalf("RightShiftInteger(-1.5) = %d, want -2", got)
	}
	if got := FromInt(3).Data(); got != 3<<12 {
		t.Fatalf("FromInt(3).Data() = %d", got)
	}
	if got := FromInt(2).Mul(FromFloat(0.5)); got != FromInt(1) {
		t.Fatalf("2*0.5 = %s", got)
	}
	if got := FromInt(1).Div(FromInt(4)); got != FromFloat(0.25) {
		t.Fatalf("1/4 = %s", got)
	}
	if got := FromInt(1).Shift(8); got != 256 {
		t.Fatalf("Shift(8) = %d, want 256", got)
	}
}

func TestSafeDegreesAngle(t *testing.T) {
	cases := []struct {
		in, want Fixed
	}{
		{FromInt(370), FromInt(10)},
		{FromInt(-10), FromInt(350)},
		{FromInt(360), 0},
		{FromInt(720 + 45), FromInt(45)},
		{FromFloat(12.5), FromFloat(12.5)},
	}
	for _, c := range cases {
		if got := SafeDegreesAngle(c.in); got != c.want {
			t.Fatalf("SafeDegreesAngle(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestDegreesSinCos(t *testing.T) {
	cases := []struct {
		angle    int
		sin, cos int16
	}{
		{0, 0, 4096},
		{90, 4096, 0},
		{180, 0, -4096},
		{270, -4096, 0},
		{360, 0, 4096},
	}
	for _, c := range cases {
		s, co := DegreesSinCos(FromInt(c.angle))
		if s != c.sin || co != c.cos {
			t.Fatalf("angle %d: got sin=%d cos=%d want %d %d", c.angle, s, co, c.sin, c.cos)
		}
	}
	s, co := DegreesSinCos(FromInt(45))
	if s != co || s < 2890 || s > 2900 {
		t.Fatalf("angle 45: sin=%d cos=%d", s, co)
	}
}

func TestReciprocal16(t *testing.T) {
	if got := Reciprocal16(256); got != 256 {
		t.Fatalf("1/256 = %d, want 256", got)
	}
	if got := Reciprocal16(512); got != 128 {
		t.Fatalf("1/512 = %d, want 128", got)
	}
	if got := Reciprocal16(0); got != 0 {
		t.Fatalf("1/0 = %d, want 0", got)
	}
}
