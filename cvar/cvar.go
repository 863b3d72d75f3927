// SPDX-License-Identifier: GPL-2.0-or-later

// Package cvar holds named tuning variables. Values are set as strings and
// parsed to float32, so config files and tooling can write anything while
// hot paths read a plain number.
package cvar

import (
	"fmt"
	"log"
	"sort"
	"strconv"
)

var (
	cvarArray  []*Cvar
	cvarByName = make(map[string]*Cvar)
)

type flag uint64

const (
	// cvar flags bitfield
	NONE    flag = 0
	ARCHIVE flag = 1
	NOTIFY  flag = 1 << 1
	ROM     flag = 1 << 6
)

type CallbackFunc func(cv *Cvar)

type Cvar struct {
	archive  bool
	notify   bool
	rom      bool
	callback CallbackFunc
	name     string
	// stringValue is the truth, value the derived one
	stringValue  string
	value        float32
	defaultValue string
	id           int
}

func All() []*Cvar {
	return cvarArray
}

func (cv *Cvar) Archive() bool {
	return cv.archive
}

func (cv *Cvar) Notify() bool {
	return cv.notify
}

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

func (cv *Cvar) SetByString(s string) {
	if cv.rom {
		return
	}
	cv.stringValue = s
	pf, _ := strconv.ParseFloat(cv.stringValue, 32)
	cv.value = float32(pf)
	if cv.callback != nil {
		cv.callback(cv)
	}
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Cvar) String() string {
	return cv.stringValue
}

func (cv *Cvar) Default() string {
	return cv.defaultValue
}

func (cv *Cvar) ID() int {
	return cv.id
}

func (cv *Cvar) Name() string {
	return cv.name
}

func (cv *Cvar) Value() float32 {
	return cv.value
}

func (cv *Cvar) SetValue(value float32) {
	if float32(int(value)) == value {
		v := strconv.FormatInt(int64(value), 10)
		cv.SetByString(v)
	} else {
		v := strconv.FormatFloat(float64(value), 'f', -1, 32)
		cv.SetByString(v)
	}
}

func (cv *Cvar) Toggle() {
	if cv.String() == "1" {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
}

func (cv *Cvar) Bool() bool {
	return cv.stringValue != "0"
}

func Get(name string) (*Cvar, bool) {
	cv, err := cvarByName[name]
	return cv, err
}

func GetByID(id int) (*Cvar, error) {
	if id < 0 || id >= len(cvarArray) {
		return nil, fmt.Errorf("id out of bounds")
	}
	return cvarArray[id], nil
}

// SetByName sets a registered cvar, reporting whether name was known.
func SetByName(name, value string) bool {
	cv, ok := cvarByName[name]
	if !ok {
		return false
	}
	cv.SetByString(value)
	return true
}

// Names returns all registered names, sorted.
func Names() []string {
	names := make([]string, 0, len(cvarArray))
	for _, cv := range cvarArray {
		names = append(names, cv.name)
	}
	sort.Strings(names)
	return names
}

func create(name, value string) *Cvar {
	cv := &Cvar{name: name, defaultValue: value}
	cv.SetByString(value)
	pos := len(cvarArray)
	cvarArray = append(cvarArray, cv)
	cvarByName[name] = cv
	cv.id = pos
	return cv
}

func Register(name, value string, flags flag) (*Cvar, error) {
	if _, ok := cvarByName[name]; ok {
		return nil, fmt.Errorf("Can't register variable %s, already defined\n", name)
	}

	cv := create(name, value)

	if flags&ARCHIVE != 0 {
		cv.archive = true
	}
	if flags&NOTIFY != 0 {
		cv.notify = true
	}
	if flags&ROM != 0 {
		cv.rom = true
	}

	return cv, nil
}

func MustRegister(n, v string, flag flag) *Cvar {
	cv, err := Register(n, v, flag)
	if err != nil {
		log.Panic(n)
	}
	return cv
}
