// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "math/bits"

// assureConstraints implements the Constraint Assurer (spec.md §4.6)
// over every instruction in f: for each declared must-differ operand it
// inserts an unspillable copy and a keep edge, then melts redundant
// keeps and restores SSA form. See driver.go's AssureConstraints for the
// exported, panic-recovering entry point spec.md §6 names.
func assureConstraints(f *Func) {
	table := newOpCopyTable()
	melt := map[meltKey][]*Value{}

	for _, b := range f.Blocks {
		for _, inst := range b.Values() {
			assureOne(f, table, melt, inst)
		}
	}

	meltKeeps(f, melt)

	for _, v := range table.order {
		e := table.entries[v]
		ReconstructSSA(v, e.copies)
	}

	demoteOrphanCopyKeeps(table)
}

// meltKey groups CopyKeeps that protect operands of the same instruction
// sourced from projections of the same tuple-mode parent (spec.md §4.6,
// "Keep melting").
type meltKey struct {
	referent *Value
	parent   *Value
}

func assureOne(f *Func, table *OpCopyTable, melt map[meltKey][]*Value, inst *Value) {
	c := inst.Constraint
	if c == nil || c.MustDiffer == 0 {
		return
	}
	pred := unprojected(inst)

	for i := 0; i < 32; i++ {
		bit := uint32(1) << uint(i)
		if c.MustDiffer&bit == 0 {
			continue
		}
		if i >= len(pred.Args) {
			f.Fatalf("must-differ constraint on %s references out-of-range operand %d", inst, i)
		}
		if shortCircuits(c, pred, i) {
			continue
		}

		v := pred.Args[i]
		k := existingCopy(inst, v)
		if k == nil {
			k = newUnspillableCopy(f, inst, v)
		}
		keep := makeKeep(f, inst, k, v)
		table.register(v, regClassOf(v), k, keep)

		if keep.Op == OpCopyKeep && v.Op == OpProj && len(v.Args) == 1 {
			key := meltKey{referent: inst, parent: v.Args[0]}
			melt[key] = append(melt[key], keep)
		}
	}
}

// shortCircuits implements spec.md §4.6's "Short-circuit": a single-bit
// must-differ whose paired single-bit should-be-same already names
// identical operands needs no enforcement.
func shortCircuits(c *OutputConstraint, pred *Value, bitK int) bool {
	if bits.OnesCount32(c.ShouldBeSame) != 1 || bits.OnesCount32(c.MustDiffer) != 1 {
		return false
	}
	j := bits.TrailingZeros32(c.ShouldBeSame)
	k := bits.TrailingZeros32(c.MustDiffer)
	if k != bitK {
		return false
	}
	if j >= len(pred.Args) || k >= len(pred.Args) {
		return false
	}
	return pred.Args[j] == pred.Args[k]
}

func newUnspillableCopy(f *Func, before, v *Value) *Value {
	cp := &Value{ID: f.ids.get(), Op: OpCopyUnspillable, Mode: ModeData, Block: before.Block, Args: []*Value{nil}, unspillable: true}
	cp.setArg(0, v)
	ScheduleOf(before.Block).InsertBefore(before, cp)
	return cp
}

// makeKeep picks the keep shape per spec.md §4.6, "Keep selection": a
// CopyKeep when v has users beyond this new copy (so the copy must track
// its own liveness independent of v), otherwise a plain Keep binding I
// directly to the copy.
func makeKeep(f *Func, inst, k, v *Value) *Value {
	if len(v.Users()) > 1 {
		kp := &Value{ID: f.ids.get(), Op: OpCopyKeep, Mode: ModeControl, Block: inst.Block, Args: []*Value{nil, nil}}
		kp.setArg(0, k)
		kp.setArg(1, inst)
		ScheduleOf(inst.Block).InsertAfter(inst, kp)
		return kp
	}
	kp := &Value{ID: f.ids.get(), Op: OpKeep, Mode: ModeControl, Block: inst.Block, Args: []*Value{nil, nil}}
	kp.setArg(0, inst)
	kp.setArg(1, k)
	ScheduleOf(inst.Block).InsertAfter(inst, kp)
	return kp
}

func regClassOf(v *Value) RegClassID {
	if r := v.reg(); !isNoRegister(r) {
		return r.Class
	}
	return 0
}

// meltKeeps fuses each cluster of CopyKeeps protecting operands of the
// same instruction that came from the same tuple-mode parent into one
// CopyKeep with a single referent and many kept inputs (spec.md §4.6).
func meltKeeps(f *Func, melt map[meltKey][]*Value) {
	for key, keeps := range melt {
		if len(keeps) < 2 {
			continue
		}
		last := keeps[0]
		for _, kp := range keeps[1:] {
			if scheduledAfter(kp, last) {
				last = kp
			}
		}

		fused := &Value{ID: f.ids.get(), Op: OpCopyKeep, Mode: ModeControl, Block: last.Block, Args: make([]*Value, 1+len(keeps))}
		fused.setArg(0, key.referent)
		for i, kp := range keeps {
			fused.setArg(1+i, kp.Args[0])
		}
		ScheduleOf(last.Block).InsertAfter(last, fused)

		for _, kp := range keeps {
			ScheduleOf(kp.Block).Remove(kp)
			for i := range kp.Args {
				kp.setArg(i, nil)
			}
		}
	}
}

// scheduledAfter reports whether a is scheduled after b within the same
// block.
func scheduledAfter(a, b *Value) bool {
	if a.Block != b.Block {
		return false
	}
	for n := Prev(a); n != nil; n = Prev(n) {
		if n == b {
			return true
		}
	}
	return false
}

// demoteOrphanCopyKeeps converts any CopyKeep whose copy ended up with no
// normal users — only its own keep edge remains, because SSA
// reconstruction repointed every real use elsewhere — down to a plain
// Keep (spec.md §4.6, "SSA reconstruction").
func demoteOrphanCopyKeeps(table *OpCopyTable) {
	for _, v := range table.order {
		e := table.entries[v]
		for i, k := range e.copies {
			keep := e.keeps[i]
			if keep.Op != OpCopyKeep || len(keep.Args) != 2 {
				continue
			}
			users := k.Users()
			if len(users) == 1 && users[0] == keep {
				referent := keep.Args[1]
				kept := keep.Args[0]
				keep.setArg(0, referent)
				keep.setArg(1, kept)
				keep.Op = OpKeep
			}
		}
	}
}
