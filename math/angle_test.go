// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	gmath "math"
	"testing"
)

func TestRadians(t *testing.T) {
	got := Radians(180)
	if got != gmath.Pi {
		t.Errorf("Radians(180) = %v want Pi", got)
	}
	got = Radians(0)
	if got != 0 {
		t.Errorf("Radians(0) = %v want 0", got)
	}
}

func TestDegrees(t *testing.T) {
	got := Degrees(gmath.Pi / 2)
	if got != 90 {
		t.Errorf("Degrees(Pi/2) = %v want 90", got)
	}
}

func TestRadiansRoundtrip(t *testing.T) {
	const deg = 45
	got := Degrees(Radians(deg))
	if diff := got - deg; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("Degrees(Radians(45)) = %v want 45", got)
	}
}
