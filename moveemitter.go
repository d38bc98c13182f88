// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// EmitMoves implements the Move Emitter (spec.md §4.3): it realizes every
// MoveDescriptor as concrete copy or exchange instructions, wires their
// results onto the permutation's former users, and removes p from the
// schedule once all descriptors have been emitted.
//
// New instructions are inserted starting at the predecessor of p and
// advancing past each newly emitted node, so the final order is exactly
// the emission order (spec.md §4.3, "Scheduling").
func EmitMoves(p *Value, pairs []*RegPair, descs []*MoveDescriptor, frm *FreeRegisterMap) {
	f := p.Block.Func
	b := p.Block
	sched := ScheduleOf(b)
	point := Prev(p)

	byInReg := make(map[*Register]*Value, len(pairs))
	byOutVal := make(map[*Register]*Value, len(pairs))
	for _, pr := range pairs {
		byInReg[pr.InReg] = pr.InValue
		byOutVal[pr.OutReg] = pr.OutVal
	}

	e := &emitter{f: f, b: b, sched: sched, point: point, byInReg: byInReg, byOutVal: byOutVal}

	scratch, haveScratch := frm.Lookup(p)

	for _, d := range descs {
		switch d.Kind {
		case MoveChain:
			e.emitChain(d.Elems)
		case MoveCycle:
			if haveScratch && len(d.Elems) > 2 {
				e.emitCycleWithScratch(d.Elems, scratch)
			} else {
				e.emitCycleWithExchanges(d.Elems)
			}
		default:
			f.Fatalf("unknown move descriptor kind for %s", p)
		}
	}

	sched.Remove(p)
	for i := range p.Args {
		p.setArg(i, nil)
	}
}

// emitter carries the running insertion point and original pair lookups
// shared across a permutation's descriptors.
type emitter struct {
	f        *Func
	b        *Block
	sched    Schedule
	point    *Value
	byInReg  map[*Register]*Value // original value that occupied a register before lowering
	byOutVal map[*Register]*Value // original projection whose register an emitted value finally supplies
}

func (e *emitter) insert(v *Value) *Value {
	e.sched.InsertAfter(e.point, v)
	e.point = v
	return v
}

func (e *emitter) newCopy(src *Value, dst *Register) *Value {
	v := &Value{ID: e.f.ids.get(), Op: OpCopy, Mode: ModeData, Block: e.b, Args: []*Value{nil}, Reg: dst}
	v.setArg(0, src)
	return e.insert(v)
}

// replaceFinal retires the original projection that produced reg,
// splicing its users onto repl and dropping it from the schedule.
func (e *emitter) replaceFinal(reg *Register, repl *Value) {
	orig, ok := e.byOutVal[reg]
	if !ok || orig == nil {
		e.f.Fatalf("no original output for register %s", reg)
	}
	orig.replaceUses(repl)
	e.sched.Remove(orig)
}

// emitChain realizes a chain [e0, e1, ..., e_{k-1}] as k-1 copies emitted
// tail-first (spec.md §4.3, "Chain of length k").
func (e *emitter) emitChain(elems []*Register) {
	for i := len(elems) - 2; i >= 0; i-- {
		src := e.byInReg[elems[i]]
		cp := e.newCopy(src, elems[i+1])
		e.replaceFinal(elems[i+1], cp)
	}
}

// emitCycleWithScratch realizes a cycle using a spare register: save the
// tail's value, run the chain of copies, then restore from scratch into
// the head (spec.md §4.3, k+1 copies / 0 exchanges).
func (e *emitter) emitCycleWithScratch(elems []*Register, scratch *Register) {
	k := len(elems)
	saved := e.newCopy(e.byInReg[elems[k-1]], scratch)

	for i := k - 2; i >= 0; i-- {
		src := e.byInReg[elems[i]]
		cp := e.newCopy(src, elems[i+1])
		e.replaceFinal(elems[i+1], cp)
	}

	restore := e.newCopy(saved, elems[0])
	e.replaceFinal(elems[0], restore)
}

// emitCycleWithExchanges realizes a cycle as k-1 two-register exchanges
// when no scratch register is available, or when k == 2 (spec.md §4.3).
// Each exchange's "other" projection becomes the next exchange's input,
// the one subtle rewiring step the source calls out (spec.md §9).
func (e *emitter) emitCycleWithExchanges(elems []*Register) {
	k := len(elems)
	current := make(map[*Register]*Value, k)
	for _, r := range elems {
		current[r] = e.byInReg[r]
	}

	for i := k - 2; i >= 0; i-- {
		srcA := current[elems[i]]
		srcB := current[elems[i+1]]

		ex := &Value{ID: e.f.ids.get(), Op: OpExchange, Mode: ModeTuple, Block: e.b, Args: []*Value{nil, nil}}
		ex.setArg(0, srcA)
		ex.setArg(1, srcB)
		e.insert(ex)

		proj0 := &Value{ID: e.f.ids.get(), Op: OpProj, Mode: ModeData, Block: e.b, Args: []*Value{nil}, AuxInt: 0, Reg: elems[i+1]}
		proj0.setArg(0, ex)
		e.insert(proj0)
		e.replaceFinal(elems[i+1], proj0)

		proj1 := &Value{ID: e.f.ids.get(), Op: OpProj, Mode: ModeData, Block: e.b, Args: []*Value{nil}, AuxInt: 1, Reg: elems[i]}
		proj1.setArg(0, ex)
		e.insert(proj1)

		if i == 0 {
			e.replaceFinal(elems[0], proj1)
		} else {
			current[elems[i]] = proj1
		}
	}
}
