// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "testing"

// TestComputeFreeRegistersSkipsLiveAcrossPerm verifies the oracle skips a
// register that is live across the permutation (r3, used both before and
// after p) and skips the permutation's own operand register (r1),
// landing on the lowest remaining class index (r2).
func TestComputeFreeRegistersSkipsLiveAcrossPerm(t *testing.T) {
	cfg := testConfig(t, "R1", "R2", "R3", "R4")
	r1 := regByName(t, cfg, "R1")
	r2 := regByName(t, cfg, "R2")
	r3 := regByName(t, cfg, "R3")

	f := NewFunc("f", cfg)
	b := f.NewBlock()

	v0 := newGeneric(f, b)
	v0.Reg = r3
	v1 := newGeneric(f, b)
	v1.Reg = r1

	p, _ := buildPermute(f, b, []*Value{v1}, []*Register{r2})
	newGeneric(f, b, v0) // keeps r3 live across p

	lo := ComputeLiveness(f)
	frm := ComputeFreeRegisters(f, lo)

	scratch, ok := frm.Lookup(p)
	if !ok {
		t.Fatal("expected a free register to be found")
	}
	if scratch != r2 {
		t.Errorf("expected scratch register %v, got %v", r2, scratch)
	}
}

// TestComputeFreeRegistersNoneAvailable verifies absence (not a zero
// Register) when a permutation's own operands already occupy every
// register in the class.
func TestComputeFreeRegistersNoneAvailable(t *testing.T) {
	cfg := testConfig(t, "R1", "R2")
	r1 := regByName(t, cfg, "R1")
	r2 := regByName(t, cfg, "R2")

	f := NewFunc("f", cfg)
	b := f.NewBlock()

	v1 := newGeneric(f, b)
	v1.Reg = r1
	v2 := newGeneric(f, b)
	v2.Reg = r2

	p, _ := buildPermute(f, b, []*Value{v1, v2}, []*Register{r2, r1})

	lo := ComputeLiveness(f)
	frm := ComputeFreeRegisters(f, lo)

	if _, ok := frm.Lookup(p); ok {
		t.Fatal("expected no free register to be recorded")
	}
}
