// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "testing"

// TestLivenessAcyclicLiveAcrossBlocks exercises the acyclic fast path: a
// value defined in entry and consumed two blocks downstream must be live
// at the end of every block in between, and dead once past its last use.
func TestLivenessAcyclicLiveAcrossBlocks(t *testing.T) {
	cfg := testConfig(t, "R1")
	f := NewFunc("f", cfg)

	entry := f.NewBlock()
	mid := f.NewBlock()
	user := f.NewBlock()
	tail := f.NewBlock()
	linkGoto(f, entry, mid)
	linkGoto(f, mid, user)
	linkGoto(f, user, tail)
	f.Entry = entry

	v := newGeneric(f, entry)
	newGeneric(f, user, v)

	lo := ComputeLiveness(f)

	for _, b := range []*Block{entry, mid} {
		if !containsID(lo.LiveAtEnd(b), v.ID) {
			t.Errorf("expected v live at end of %v", b)
		}
	}
	for _, b := range []*Block{user, tail} {
		if containsID(lo.LiveAtEnd(b), v.ID) {
			t.Errorf("expected v dead at end of %v", b)
		}
	}
}

// TestLivenessIterativeLoopCarriesOperand exercises the simple-loop
// iterative path: a value referenced on every iteration of a loop body
// must stay live across the loop's back edge, which a single postorder
// pass cannot discover.
func TestLivenessIterativeLoopCarriesOperand(t *testing.T) {
	cfg := testConfig(t, "R1")
	f := NewFunc("f", cfg)

	entry := f.NewBlock()
	header := f.NewBlock()
	body := f.NewBlock()
	exit := f.NewBlock()
	linkGoto(f, entry, header)
	f.addEdge(header, body)
	f.addEdge(header, exit)
	f.addEdge(body, header)
	f.Entry = entry

	v := newGeneric(f, entry)
	newGeneric(f, body, v)

	lo := ComputeLiveness(f)

	for _, b := range []*Block{entry, header, body} {
		if !containsID(lo.LiveAtEnd(b), v.ID) {
			t.Errorf("expected v live at end of %v (loop-carried)", b)
		}
	}
	if containsID(lo.LiveAtEnd(exit), v.ID) {
		t.Error("expected v dead past the loop exit")
	}
}

// TestLivenessSCCIrreducible exercises the general SCC path: a cyclic
// region entered at two distinct blocks has no unique header, forcing
// the 3-pass alternating-order fixpoint instead of the simple-loop one.
func TestLivenessSCCIrreducible(t *testing.T) {
	cfg := testConfig(t, "R1")
	f := NewFunc("f", cfg)

	entry := f.NewBlock()
	branch := f.NewBlock()
	a := f.NewBlock()
	bb := f.NewBlock()
	exit := f.NewBlock()
	linkGoto(f, entry, branch)
	f.addEdge(branch, a)
	f.addEdge(branch, bb)
	f.addEdge(a, bb)
	f.addEdge(bb, a)
	f.addEdge(a, exit)
	f.addEdge(bb, exit)
	f.Entry = entry

	v := newGeneric(f, entry)
	newGeneric(f, exit, v)

	lo := ComputeLiveness(f)

	for _, b := range []*Block{entry, branch, a, bb} {
		if !containsID(lo.LiveAtEnd(b), v.ID) {
			t.Errorf("expected v live at end of %v", b)
		}
	}
	if containsID(lo.LiveAtEnd(exit), v.ID) {
		t.Error("expected v dead past its consumer")
	}
}

// TestValuesInterfereSimultaneouslyLive confirms two values used
// together by the same instruction are reported as interfering.
func TestValuesInterfereSimultaneouslyLive(t *testing.T) {
	cfg := testConfig(t, "R1")
	f := NewFunc("f", cfg)
	b := f.NewBlock()
	f.Entry = b

	x := newGeneric(f, b)
	y := newGeneric(f, b)
	newGeneric(f, b, x, y)

	lo := ComputeLiveness(f)
	if !lo.ValuesInterfere(x, y) {
		t.Error("expected x and y to interfere, both read by the same instruction")
	}
}

// TestValuesInterfereDisjointLifetimes confirms two values whose live
// ranges never overlap are reported as non-interfering.
func TestValuesInterfereDisjointLifetimes(t *testing.T) {
	cfg := testConfig(t, "R1")
	f := NewFunc("f", cfg)
	b := f.NewBlock()
	f.Entry = b

	x := newGeneric(f, b)
	newGeneric(f, b, x)
	y := newGeneric(f, b)
	newGeneric(f, b, y)

	lo := ComputeLiveness(f)
	if lo.ValuesInterfere(x, y) {
		t.Error("expected x and y not to interfere, x dies before y is defined")
	}
}

func containsID(ids []ID, id ID) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
