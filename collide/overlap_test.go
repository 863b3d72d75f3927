// SPDX-License-Identifier: GPL-2.0-or-later

package collide

import (
	"testing"

	"stride/math/vec"
)

func TestOverlapSymmetry(t *testing.T) {
	shapes := []Shape{
		MustBox(vec.Vec3{X: 1, Y: 1, Z: 1}),
		MustSphere(1.2),
		MustCapsule(0.5, 1),
	}
	positions := []vec.Vec3{
		{},
		{X: 1.5},
		{X: 0, Y: 1.8, Z: 0},
		{X: 5, Y: 5, Z: 5},
	}
	for _, a := range shapes {
		for _, b := range shapes {
			for _, pa := range positions {
				for _, pb := range positions {
					ab := Overlap(a, pa, b, pb)
					ba := Overlap(b, pb, a, pa)
					if ab != ba {
						t.Errorf("Overlap(%v@%v, %v@%v) = %v but reversed = %v",
							a.Kind, pa, b.Kind, pb, ab, ba)
					}
				}
			}
		}
	}
}

func TestSphereSphere(t *testing.T) {
	a := MustSphere(1)
	b := MustSphere(1)
	if !Overlap(a, vec.Vec3{}, b, vec.Vec3{X: 1.9}) {
		t.Errorf("spheres at distance 1.9 with radii 1+1 do not overlap")
	}
	// touching counts
	if !Overlap(a, vec.Vec3{}, b, vec.Vec3{X: 2}) {
		t.Errorf("touching spheres do not overlap")
	}
	if Overlap(a, vec.Vec3{}, b, vec.Vec3{X: 2.1}) {
		t.Errorf("separated spheres overlap")
	}
}

func TestBoxBox(t *testing.T) {
	a := MustBox(vec.Vec3{X: 1, Y: 1, Z: 1})
	if !Overlap(a, vec.Vec3{}, a, vec.Vec3{X: 1.5, Y: 0.5, Z: 0}) {
		t.Errorf("overlapping boxes do not overlap")
	}
	if Overlap(a, vec.Vec3{}, a, vec.Vec3{X: 2.5, Y: 0, Z: 0}) {
		t.Errorf("separated boxes overlap")
	}
}

func TestBoxSphere(t *testing.T) {
	box := MustBox(vec.Vec3{X: 1, Y: 1, Z: 1})
	sph := MustSphere(0.5)
	if !Overlap(box, vec.Vec3{}, sph, vec.Vec3{X: 1.4, Y: 0, Z: 0}) {
		t.Errorf("sphere against box face does not overlap")
	}
	if Overlap(box, vec.Vec3{}, sph, vec.Vec3{X: 1.6, Y: 0, Z: 0}) {
		t.Errorf("sphere past box face overlaps")
	}
	// corner distance is sqrt(3*0.25) ~ 0.866 from (1.5,1.5,1.5) to (1,1,1)
	if Overlap(box, vec.Vec3{}, sph, vec.Vec3{X: 1.5, Y: 1.5, Z: 1.5}) {
		t.Errorf("sphere off the corner overlaps")
	}
}

func TestCapsuleCapsule(t *testing.T) {
	a := MustCapsule(0.5, 1)
	// parallel capsules 0.9 apart with combined radius 1.0
	if !Overlap(a, vec.Vec3{}, a, vec.Vec3{X: 0.9}) {
		t.Errorf("close parallel capsules do not overlap")
	}
	if Overlap(a, vec.Vec3{}, a, vec.Vec3{X: 1.1}) {
		t.Errorf("separated parallel capsules overlap")
	}
	// stacked: segment gap 2-2*1=0 at 2.9 < combined 1.0+caps
	if !Overlap(a, vec.Vec3{}, a, vec.Vec3{Y: 2.9}) {
		t.Errorf("stacked capsules within cap reach do not overlap")
	}
	if Overlap(a, vec.Vec3{}, a, vec.Vec3{Y: 3.1}) {
		t.Errorf("stacked capsules out of reach overlap")
	}
}

func TestSphereCapsule(t *testing.T) {
	sph := MustSphere(0.5)
	cps := MustCapsule(0.5, 1)
	// sphere level with the capsule top end
	if !Overlap(sph, vec.Vec3{Y: 1, X: 0.9}, cps, vec.Vec3{}) {
		t.Errorf("sphere at capsule side does not overlap")
	}
	if Overlap(sph, vec.Vec3{Y: 2.6}, cps, vec.Vec3{}) {
		t.Errorf("sphere above capsule overlaps")
	}
}

func TestBoxCapsule(t *testing.T) {
	box := MustBox(vec.Vec3{X: 1, Y: 1, Z: 1})
	cps := MustCapsule(0.5, 1)
	if !Overlap(box, vec.Vec3{}, cps, vec.Vec3{X: 1.4}) {
		t.Errorf("capsule against box face does not overlap")
	}
	if Overlap(box, vec.Vec3{}, cps, vec.Vec3{X: 1.6}) {
		t.Errorf("capsule past box face overlaps")
	}
	// capsule standing on top of the box within cap reach
	if !Overlap(box, vec.Vec3{}, cps, vec.Vec3{Y: 2.4}) {
		t.Errorf("capsule above box within reach does not overlap")
	}
	if Overlap(box, vec.Vec3{}, cps, vec.Vec3{Y: 2.6}) {
		t.Errorf("capsule above box out of reach overlaps")
	}
}
