// SPDX-License-Identifier: GPL-2.0-or-later

// Package crc computes the 16bit CRC used to verify terrain tile payloads.
package crc

import (
	"encoding/binary"
	"math"
)

const (
	ccittFalse = 0x1021
	crcInitial = 0xffff
)

type table struct {
	entries [256]uint16
}

// 16bit CRC used by XMODEM
var ccittFalseTable = makeTable(ccittFalse)

func makeTable(poly uint16) *table {
	t := &table{}
	width := uint16(16)
	for i := uint16(0); i < 256; i++ {
		crc := i << (width - 8)
		for j := 0; j < 8; j++ {
			if crc&(1<<(width-1)) != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t.entries[i] = crc
	}
	return t
}

func update(crc uint16, p []byte) uint16 {
	for _, v := range p {
		crc = ccittFalseTable.entries[byte(crc>>8)^v] ^ (crc << 8)
	}
	return crc
}

func Update(p []byte) uint16 {
	return update(crcInitial, p)
}

// Floats checksums a float32 slice by its little endian bit patterns.
func Floats(vals []float32) uint16 {
	crc := uint16(crcInitial)
	var b [4]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		crc = update(crc, b[:])
	}
	return crc
}
