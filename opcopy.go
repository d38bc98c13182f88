// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// OpCopyTable is the association table the Constraint Assurer (spec.md
// §4.6) uses to remember, for each original value V that needed an
// unspillable copy, which copies and keep edges were created for it.
// Entries own their slices for the duration of the constraint pass
// (spec.md §3, "Ownership").
type OpCopyTable struct {
	entries map[*Value]*opCopyEntry
	order   []*Value // insertion order, for deterministic melting/reconstruction
}

type opCopyEntry struct {
	v     *Value
	class RegClassID
	// copies are the unspillable K_i created for v, in creation order.
	copies []*Value
	// keeps are the Keep/CopyKeep nodes created alongside those copies,
	// index-aligned with copies.
	keeps []*Value
}

func newOpCopyTable() *OpCopyTable {
	return &OpCopyTable{entries: map[*Value]*opCopyEntry{}}
}

// register records a newly created copy/keep pair for v, creating v's
// entry on first use (spec.md §4.6, "Bookkeeping").
func (t *OpCopyTable) register(v *Value, class RegClassID, copy, keep *Value) {
	e, ok := t.entries[v]
	if !ok {
		e = &opCopyEntry{v: v, class: class}
		t.entries[v] = e
		t.order = append(t.order, v)
	}
	e.copies = append(e.copies, copy)
	e.keeps = append(e.keeps, keep)
}

// existingCopy scans backward from before, crossing only copy nodes,
// looking for an unspillable copy of v already present (spec.md §4.6,
// "Existing-copy reuse").
func existingCopy(before *Value, v *Value) *Value {
	for n := Prev(before); n != nil; n = Prev(n) {
		if n.Op != OpCopy && n.Op != OpCopyUnspillable {
			break
		}
		if n.unspillable && len(n.Args) == 1 && n.Args[0] == v {
			return n
		}
	}
	return nil
}

// unprojected returns the value that declared v's shape: v's parent if v
// is itself a Proj, otherwise v. Constraint masks are declared on the
// real instruction, not on a view of one of its outputs (spec.md §4.6,
// "unprojected predecessor").
func unprojected(v *Value) *Value {
	if v.Op == OpProj && len(v.Args) == 1 {
		return v.Args[0]
	}
	return v
}
