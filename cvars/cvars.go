// SPDX-License-Identifier: GPL-2.0-or-later

// Package cvars declares every tuning variable the simulation reads.
// Movement code reads these each tick, so live changes through config
// reload take effect without a restart.
package cvars

import (
	"stride/cvar"
)

var (
	HostMaxTicks     *cvar.Cvar
	HostPersistEvery *cvar.Cvar
	HostTickRate     *cvar.Cvar

	ServerAirControl    *cvar.Cvar
	ServerCellSize      *cvar.Cvar
	ServerGravity       *cvar.Cvar
	ServerGroundCheck   *cvar.Cvar
	ServerJump          *cvar.Cvar
	ServerMaxFall       *cvar.Cvar
	ServerMaxSpeed      *cvar.Cvar
	ServerSkinWidth     *cvar.Cvar
	ServerSlopeLimit    *cvar.Cvar
	ServerSnapTolerance *cvar.Cvar
	ServerStepHeight    *cvar.Cvar
)

func init() {
	HostMaxTicks = cvar.MustRegister("host_maxticks", "10", cvar.NONE)
	HostPersistEvery = cvar.MustRegister("host_persistevery", "0", cvar.NONE)
	HostTickRate = cvar.MustRegister("host_tickrate", "20", cvar.ARCHIVE)

	ServerAirControl = cvar.MustRegister("sv_aircontrol", "0.3", cvar.NONE)
	ServerCellSize = cvar.MustRegister("sv_cellsize", "10", cvar.NONE) // read once at world setup
	ServerGravity = cvar.MustRegister("sv_gravity", "19.62", cvar.NOTIFY)
	ServerGroundCheck = cvar.MustRegister("sv_groundcheck", "1", cvar.NONE)
	ServerJump = cvar.MustRegister("sv_jump", "8", cvar.NONE)
	ServerMaxFall = cvar.MustRegister("sv_maxfall", "50", cvar.NONE)
	ServerMaxSpeed = cvar.MustRegister("sv_maxspeed", "8", cvar.NOTIFY)
	ServerSkinWidth = cvar.MustRegister("sv_skinwidth", "0.02", cvar.NONE)
	ServerSlopeLimit = cvar.MustRegister("sv_slopelimit", "45", cvar.NONE)
	ServerSnapTolerance = cvar.MustRegister("sv_snaptolerance", "0.3", cvar.NONE)
	ServerStepHeight = cvar.MustRegister("sv_stepheight", "0.3", cvar.NONE)
}
