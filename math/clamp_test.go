// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"testing"
)

func TestClampMin(t *testing.T) {
	v := Clamp(1, 0, 10)
	if v != 1 {
		t.Errorf("Clamp(1,0,10) = %v", v)
	}
}

func TestClampMax(t *testing.T) {
	v := Clamp(1, 100, 10)
	if v != 10 {
		t.Errorf("Clamp(1,100,10) = %v", v)
	}
}

func TestClampVal(t *testing.T) {
	v := Clamp(1, 5, 10)
	if v != 5 {
		t.Errorf("Clamp(1,5,10) = %v", v)
	}
}

func TestLerpEnds(t *testing.T) {
	if v := Lerp(float32(2), 6, 0); v != 2 {
		t.Errorf("Lerp(2,6,0) = %v want 2", v)
	}
	if v := Lerp(float32(2), 6, 1); v != 6 {
		t.Errorf("Lerp(2,6,1) = %v want 6", v)
	}
}

func TestLerpMid(t *testing.T) {
	if v := Lerp(float32(2), 6, 0.5); v != 4 {
		t.Errorf("Lerp(2,6,0.5) = %v want 4", v)
	}
}
