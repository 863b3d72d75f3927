// SPDX-License-Identifier: GPL-2.0-or-later

package mover

import (
	"fmt"

	"stride/math/vec"
)

type JumpState uint8

const (
	Idle JumpState = iota
	Jumping
	Falling
)

func (j JumpState) String() string {
	switch j {
	case Idle:
		return "idle"
	case Jumping:
		return "jumping"
	case Falling:
		return "falling"
	}
	return fmt.Sprintf("jumpstate(%d)", uint8(j))
}

// State is the per-entity controller state. Grounded and Jumping are
// mutually exclusive outside the jump-initiation tick itself.
type State struct {
	Grounded     bool
	VerticalVel  float32
	SinceGround  float32
	GroundNormal vec.Vec3
	Jump         JumpState
}

// NewState returns a grounded state with an upright contact normal, the
// right start for entities spawned on the ground.
func NewState() State {
	return State{
		Grounded:     true,
		GroundNormal: vec.Vec3{Y: 1},
	}
}

// Input is one tick of movement intent. Move is a horizontal direction
// whose length scales speed; lengths above one are normalized.
type Input struct {
	Move vec.Vec3
	Jump bool
}
