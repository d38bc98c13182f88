// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "fmt"

// FreeRegisterMap is the one-shot analysis result the Move Emitter reads
// (spec.md §3, §4.4): for each permutation node, either a scratch
// physical register it may clobber, or nothing. It is populated once per
// function before lowering and is read-only thereafter (spec.md §5).
type FreeRegisterMap struct {
	m map[*Value]*Register
}

// Lookup returns the scratch register recorded for p, if any.
func (m *FreeRegisterMap) Lookup(p *Value) (*Register, bool) {
	if m == nil {
		return nil, false
	}
	r, ok := m.m[p]
	return r, ok
}

// ComputeFreeRegisters implements the Free-Register Oracle (spec.md
// §4.4): for every permutation node, find a register of its class that
// is allocatable and not live at the permutation's position.
func ComputeFreeRegisters(f *Func, lo *LivenessOracle) *FreeRegisterMap {
	frm := &FreeRegisterMap{m: map[*Value]*Register{}}
	for _, b := range f.Blocks {
		for _, p := range b.Values() {
			if p.Op != OpPermute {
				continue
			}
			if r, ok := freeRegisterFor(f, lo, p); ok {
				frm.m[p] = r
			}
		}
	}
	return frm
}

// permClass returns the register class a permutation's operands (and
// outputs) share, per spec.md §3's invariant that they all agree.
func permClass(p *Value) *RegClass {
	cfg := p.Block.Func.Config
	for _, a := range p.Args {
		if !isNoRegister(a.reg()) {
			return cfg.class(a.reg().Class)
		}
	}
	return nil
}

func freeRegisterFor(f *Func, lo *LivenessOracle, p *Value) (*Register, bool) {
	class := permClass(p)
	if class == nil {
		return nil, false
	}

	live := liveRegsAtPosition(f, lo, p, class.ID)

	// Operand registers of p itself count as uses at p's own position
	// (spec.md §4.4).
	for _, a := range p.Args {
		if r := a.reg(); !isNoRegister(r) && r.Class == class.ID {
			live[r] = true
		}
	}

	// First by class index is the canonical choice (spec.md §4.4).
	for i := int8(0); int(i) < len(class.Registers); i++ {
		r := class.byIndex(i)
		if r.Virtual {
			continue
		}
		if !f.Config.isAllocatable(r) {
			continue
		}
		if live[r] {
			continue
		}
		return r, true
	}

	if f.pass != nil && f.pass.debug > regDebug {
		var mask RegMask
		for r := range live {
			mask = mask.add(r)
		}
		fmt.Printf("%s: no free register in class %d for %s, %d of %d registers live: %#v\n",
			f.Name, class.ID, p, countRegs(mask), len(class.Registers), liveRegSample(live))
	}
	return nil, false
}

// liveRegSample picks one live register to print alongside the count, so
// the debug trace names at least one concrete blocker.
func liveRegSample(live map[*Register]bool) *Register {
	for r := range live {
		return r
	}
	return nil
}

// liveRegsAtPosition computes which physical registers of class are live
// immediately before p, by starting from live-at-end of p's block and
// replaying the block in reverse, applying the inverse of normal
// liveness (define = kill, use = gen) until reaching p (spec.md §4.4).
func liveRegsAtPosition(f *Func, lo *LivenessOracle, p *Value, class RegClassID) map[*Register]bool {
	b := p.Block
	live := map[*Register]bool{}
	for _, v := range lo.LiveValuesAtEnd(b) {
		if r := v.reg(); !isNoRegister(r) && r.Class == class && !r.Virtual {
			live[r] = true
		}
	}

	values := b.Values()
	reachedP := false
	for i := len(values) - 1; i >= 0; i-- {
		v := values[i]
		if v == p {
			reachedP = true
			break
		}
		if r := v.reg(); !isNoRegister(r) && r.Class == class && !r.Virtual {
			delete(live, r) // define = kill
		}
		for _, a := range v.Args {
			if r := a.reg(); needsReg(a) && !isNoRegister(r) && r.Class == class && !r.Virtual {
				live[r] = true // use = gen
			}
		}
	}
	if !reachedP {
		f.Fatalf("permutation %s not found scheduled in its own block", p)
	}
	return live
}
