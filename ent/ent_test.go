// SPDX-License-Identifier: GPL-2.0-or-later

package ent

import (
	"testing"
)

func TestMake(t *testing.T) {
	id := Make(7, 3)
	if id.Index() != 7 {
		t.Errorf("Index() = %v want 7", id.Index())
	}
	if id.Gen() != 3 {
		t.Errorf("Gen() = %v want 3", id.Gen())
	}
}

func TestNoneInvalid(t *testing.T) {
	if None.Valid() {
		t.Errorf("None must not be valid")
	}
	a := NewAllocator()
	if a.Alive(None) {
		t.Errorf("None must not be alive")
	}
}

func TestAllocAlive(t *testing.T) {
	a := NewAllocator()
	id := a.Alloc()
	if !id.Valid() {
		t.Errorf("Alloc returned the invalid id")
	}
	if !a.Alive(id) {
		t.Errorf("freshly allocated id %v is not alive", id)
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %v want 1", a.Len())
	}
}

func TestFreeStale(t *testing.T) {
	a := NewAllocator()
	id := a.Alloc()
	if !a.Free(id) {
		t.Errorf("Free(%v) failed", id)
	}
	if a.Alive(id) {
		t.Errorf("freed id %v is still alive", id)
	}
	if a.Free(id) {
		t.Errorf("double Free(%v) succeeded", id)
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %v want 0", a.Len())
	}
}

func TestRecycleBumpsGen(t *testing.T) {
	a := NewAllocator()
	old := a.Alloc()
	a.Free(old)
	id := a.Alloc()
	if id.Index() != old.Index() {
		t.Errorf("slot was not recycled: %v vs %v", id, old)
	}
	if id.Gen() == old.Gen() {
		t.Errorf("recycled slot kept generation %v", old.Gen())
	}
	if a.Alive(old) {
		t.Errorf("stale handle %v alive after recycle", old)
	}
	if !a.Alive(id) {
		t.Errorf("recycled handle %v not alive", id)
	}
}
