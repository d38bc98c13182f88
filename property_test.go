// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import (
	"math/rand/v2"
	"testing"
)

// TestLowerNodesAfterRARandomPermutations is the property-based check
// spec.md §8 property #1 calls for: build a random permutation, lower
// it, and assert each projection's value lands in its target register.
// Seeded with rand.NewPCG, matching the retrieval pack's seeded-RNG test
// idiom, so a failure is reproducible without rerunning the loop.
func TestLowerNodesAfterRARandomPermutations(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	const trials = 200
	for trial := 0; trial < trials; trial++ {
		classSize := 4 + rng.IntN(29) // 4..32
		arity := 2 + rng.IntN(7)      // 2..8
		if arity > classSize {
			arity = classSize
		}

		names := make([]string, classSize)
		for i := range names {
			names[i] = regName(i)
		}
		cfg := testConfig(t, names...)
		regs := make([]*Register, classSize)
		for i, n := range names {
			regs[i] = regByName(t, cfg, n)
		}

		// Pick arity distinct class-local slots to permute, and a random
		// permutation over them (spec.md §3's permutation property: the
		// multiset of input registers equals the multiset of output
		// registers).
		slots := rng.Perm(classSize)[:arity]
		sigma := rng.Perm(arity)

		f := NewFunc("f", cfg)
		b := f.NewBlock()

		ins := make([]*Value, arity)
		for i, slot := range slots {
			v := newGeneric(f, b)
			v.Reg = regs[slot]
			// Constraints disqualify every operand from Push-Through's
			// movable predicate, forcing the full pipeline rather than
			// letting the permutation get sunk away.
			v.Constraint = &OutputConstraint{}
			ins[i] = v
		}

		outRegs := make([]*Register, arity)
		for i, j := range sigma {
			outRegs[i] = regs[slots[j]]
		}

		p, projs := buildPermute(f, b, ins, outRegs)
		sinks := make([]*Value, arity)
		for i, q := range projs {
			sinks[i] = newGeneric(f, b, q)
		}

		if err := LowerNodesAfterRA(f); err != nil {
			t.Fatalf("trial %d: unexpected error: %v", trial, err)
		}
		// An arity-2 swap already is an exchange and stays in place
		// (isExchangeAlready); every other permutation is lowered away.
		wantKept := arity == 2 && sigma[0] == 1
		kept := false
		for _, v := range b.Values() {
			if v == p {
				kept = true
			}
		}
		if kept != wantKept {
			t.Fatalf("trial %d: permutation node still scheduled = %v, want %v", trial, kept, wantKept)
		}

		// Projection i carries operand i's value into outRegs[i].
		for i := range sinks {
			want := ins[i]
			got := underlyingSource(sinks[i].Args[0])
			if got != want {
				t.Fatalf("trial %d: slot %d (target reg %s) traces back to %s, want %s",
					trial, i, outRegs[i], got, want)
			}
		}
	}
}

// underlyingSource walks back through the copies and exchange
// projections the Move Emitter inserts (and the projections of an
// arity-2 permutation left in place as an exchange) to find the original
// value that ultimately supplies v.
func underlyingSource(v *Value) *Value {
	for {
		switch {
		case v.Op == OpCopy:
			v = v.Args[0]
		case v.Op == OpProj && (v.Args[0].Op == OpExchange || v.Args[0].Op == OpPermute):
			v = v.Args[0].Args[v.AuxInt]
		default:
			return v
		}
	}
}

// regName gives register i in a class a short, distinct name.
func regName(i int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdef"
	return "R" + string(letters[i%len(letters)]) + string(rune('0'+i/len(letters)))
}
