package aggregate

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.234, 1.23},
		{1.236, 1.24},
		{2.5, 2.5},
		{0.125, 0.13},   // half rounds away from zero
		{-0.125, -0.13}, // symmetric for negatives
		{-1.234, -1.23},
		{10.0 / 3.0, 3.33},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
