// Package simlog routes simulation log output. The default sink is the
// standard logger; embedders replace it with SetPrintf. DPrintf lines are
// developer chatter and stay silent unless enabled.
package simlog

import "log"

var (
	p   func(string, ...interface{}) = log.Printf
	dev bool
)

func SetPrintf(f func(string, ...interface{})) {
	p = f
}

// SetDev toggles developer output.
func SetDev(on bool) {
	dev = on
}

func Printf(format string, v ...interface{}) {
	p(format, v...)
}

// DPrintf prints only when developer output is enabled.
func DPrintf(format string, v ...interface{}) {
	if dev {
		p(format, v...)
	}
}
