package lighting

import (
	gomath "math"
	"testing"
)

func TestDirectionNormalized(t *testing.T) {
	for _, tc := range []struct{ az, el float32 }{
		{0, 0}, {45, 65}, {180, 30}, {270, 89},
	} {
		d := Direction(tc.az, tc.el)
		if l := d.Length(); gomath.Abs(float64(l-1)) > 1e-5 {
			t.Errorf("Direction(%v, %v) length = %v, want 1", tc.az, tc.el, l)
		}
	}
}

func TestDirectionStraightUp(t *testing.T) {
	d := Direction(0, 90)
	if gomath.Abs(float64(d.Y-1)) > 1e-5 {
		t.Errorf("Direction(0, 90).Y = %v, want 1", d.Y)
	}
}

func TestDefaultOffsetAboveHorizon(t *testing.T) {
	if off := DefaultOffset(); off.Y <= 0 {
		t.Errorf("default light offset Y = %v, want above horizon", off.Y)
	}
}
