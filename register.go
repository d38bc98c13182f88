// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import (
	"fmt"
	"math/bits"
)

// RegClassID names one register class (e.g. general purpose, floating
// point). Classes never mix within a single permutation (spec.md §3,
// Register/Register class invariant).
type RegClassID int8

// Register is one physical or virtual register. Virtual registers exist
// before allocation; after register allocation every interesting data
// value carries a physical one (spec.md §3, Value node invariant).
type Register struct {
	Class   RegClassID
	Index   int8 // class-local index
	Global  int16
	Name    string
	Virtual bool
}

func (r *Register) String() string {
	if r == nil {
		return "<none>"
	}
	return r.Name
}

// noRegister is the sentinel for "no register assigned".
var noRegister = &Register{Class: -1, Index: -1, Global: -1, Name: "NONE"}

func isNoRegister(r *Register) bool { return r == nil || r == noRegister }

// RegMask is a bitmask over a register class's class-local indices, one
// bit per register in that class, analogous to the compiler's regMask.
// Class-local rather than global bits keep each mask compact and let
// Config.Allocatable key one RegMask per class.
type RegMask uint64

func (m RegMask) has(r *Register) bool {
	if isNoRegister(r) {
		return false
	}
	return m&(1<<uint(r.Index)) != 0
}

func (m RegMask) add(r *Register) RegMask {
	if isNoRegister(r) {
		return m
	}
	return m | (1 << uint(r.Index))
}

func countRegs(m RegMask) int { return bits.OnesCount64(uint64(m)) }

// RegClass is a fixed-size bank of registers sharing one class, with
// lookup by class-local index (spec.md §3).
type RegClass struct {
	ID        RegClassID
	Registers []*Register // indexed by class-local Index
}

func (c *RegClass) byIndex(i int8) *Register {
	if int(i) < 0 || int(i) >= len(c.Registers) {
		return nil
	}
	return c.Registers[i]
}

// Config holds target-parameter state shared by every Func lowered
// against it: the register-class table and which physical registers are
// allocatable. This is this module's analog of the teacher's *Config
// (referenced throughout regalloc.go as s.f.Config / f.Config).
type Config struct {
	Classes []*RegClass
	// Allocatable is keyed by RegClassID; each entry is a RegMask over
	// that class's local indices.
	Allocatable map[RegClassID]RegMask
}

func (c *Config) class(id RegClassID) *RegClass {
	for _, rc := range c.Classes {
		if rc.ID == id {
			return rc
		}
	}
	return nil
}

func (c *Config) isAllocatable(r *Register) bool {
	if isNoRegister(r) {
		return false
	}
	return c.Allocatable[r.Class].has(r)
}

// NewConfig builds a Config from per-class register name lists; every
// register so named is allocatable (tests needing a non-allocatable
// register should clear bits in Allocatable after construction).
func NewConfig(classes map[RegClassID][]string) *Config {
	cfg := &Config{Allocatable: map[RegClassID]RegMask{}}
	var global int16
	for id, names := range classes {
		rc := &RegClass{ID: id}
		var mask RegMask
		for i, name := range names {
			r := &Register{Class: id, Index: int8(i), Global: global, Name: name}
			rc.Registers = append(rc.Registers, r)
			mask = mask.add(r)
			global++
		}
		cfg.Classes = append(cfg.Classes, rc)
		cfg.Allocatable[id] = mask
	}
	return cfg
}

// GoString satisfies fmt.GoStringer so that a %#v of a Register in a
// debug trace (freeRegisterFor's diagnostic when it fails to find a
// free register) prints class/index instead of the whole struct.
func (r *Register) GoString() string {
	if r == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s(class=%d,idx=%d)", r.Name, r.Class, r.Index)
}
