// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "testing"

// TestPushThroughPermGone realizes spec.md §8's S5: both of a 2-arity
// permutation's operands are produced immediately before it, so
// Push-Through sinks both and the permutation vanishes entirely.
func TestPushThroughPermGone(t *testing.T) {
	cfg := testConfig(t, "R1", "R2")
	r1, r2 := regByName(t, cfg, "R1"), regByName(t, cfg, "R2")

	f := NewFunc("f", cfg)
	b := f.NewBlock()
	v1 := newGeneric(f, b)
	v1.Reg = r1
	v2 := newGeneric(f, b)
	v2.Reg = r2

	p, projs := buildPermute(f, b, []*Value{v1, v2}, []*Register{r2, r1})
	u0 := newGeneric(f, b, projs[0])
	u1 := newGeneric(f, b, projs[1])

	lo := ComputeLiveness(f)
	outcome := pushThroughPerm(p, lo)
	if outcome != PermGone {
		t.Fatalf("expected PermGone, got %v", outcome)
	}

	for _, v := range b.Values() {
		if v == p {
			t.Fatal("permutation should have been removed from the schedule")
		}
	}
	if u0.Args[0] != v1 {
		t.Errorf("u0 should now read v1 directly, got %v", u0.Args[0])
	}
	if u1.Args[0] != v2 {
		t.Errorf("u1 should now read v2 directly, got %v", u1.Args[0])
	}
	if v1.Reg != r2 {
		t.Errorf("v1 should have been reassigned r2, got %v", v1.Reg)
	}
	if v2.Reg != r1 {
		t.Errorf("v2 should have been reassigned r1, got %v", v2.Reg)
	}
}

// TestPushThroughPermReduced checks a 2-slot permutation where one operand
// already carries an output constraint (disqualifying it from movable,
// spec.md §4.5) shrinks to arity 1 rather than vanishing entirely.
func TestPushThroughPermReduced(t *testing.T) {
	cfg := testConfig(t, "R1", "R2", "R3")
	r1, r2, r3 := regByName(t, cfg, "R1"), regByName(t, cfg, "R2"), regByName(t, cfg, "R3")

	f := NewFunc("f", cfg)
	b := f.NewBlock()
	other := newGeneric(f, b)
	other.Reg = r1
	other.Constraint = &OutputConstraint{}
	v1 := newGeneric(f, b)
	v1.Reg = r2

	p, projs := buildPermute(f, b, []*Value{other, v1}, []*Register{r2, r3})
	newGeneric(f, b, projs[0])
	newGeneric(f, b, projs[1])

	lo := ComputeLiveness(f)
	outcome := pushThroughPerm(p, lo)
	if outcome != PermReduced {
		t.Fatalf("expected PermReduced, got %v", outcome)
	}
	if len(p.Args) != 1 || p.Args[0] != other {
		t.Fatalf("expected p to keep only its first operand, got %v", p.Args)
	}
}
