// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "testing"

// buildPermute wires up a permutation node with one input per inReg and
// one projection per outReg, scheduled in b.
func buildPermute(f *Func, b *Block, inVals []*Value, outRegs []*Register) (*Value, []*Value) {
	p := f.NewValue(b, OpPermute, ModeTuple, inVals...)
	projs := make([]*Value, len(inVals))
	for i, r := range outRegs {
		q := f.NewValue(b, OpProj, ModeData, p)
		q.AuxInt = int64(i)
		q.Reg = r
		projs[i] = q
	}
	return p, projs
}

func TestBuildPairsElidesNoOp(t *testing.T) {
	cfg := testConfig(t, "R1", "R2", "R3")
	r1, r2, r3 := regByName(t, cfg, "R1"), regByName(t, cfg, "R2"), regByName(t, cfg, "R3")

	f := NewFunc("f", cfg)
	b := f.NewBlock()

	v1 := newGeneric(f, b)
	v1.Reg = r1
	v2 := newGeneric(f, b)
	v2.Reg = r2
	v3 := newGeneric(f, b)
	v3.Reg = r3

	// slot 0: r1 -> r2 (real move)
	// slot 1: r2 -> r2 (no-op)
	// slot 2: r3 -> r1 (real move)
	p, projs := buildPermute(f, b, []*Value{v1, v2, v3}, []*Register{r2, r2, r1})

	user := newGeneric(f, b, projs[1])

	pairs := BuildPairs(p)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	for _, pr := range pairs {
		if pr.InReg == pr.OutReg {
			t.Errorf("pair %v->%v should have differed", pr.InReg, pr.OutReg)
		}
	}

	// The no-op's user should now read directly from v2.
	if user.Args[0] != v2 {
		t.Errorf("expected no-op user rewired to v2, got %v", user.Args[0])
	}
}

func TestBuildPairsFatalsOnUnassignedRegister(t *testing.T) {
	cfg := testConfig(t, "R1", "R2")
	r1 := regByName(t, cfg, "R1")

	f := NewFunc("f", cfg)
	b := f.NewBlock()
	v1 := newGeneric(f, b)
	v1.Reg = r1

	p, _ := buildPermute(f, b, []*Value{v1}, []*Register{nil})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected BuildPairs to panic on unassigned register")
		}
		if _, ok := r.(*ice); !ok {
			t.Fatalf("expected *ice panic, got %T", r)
		}
	}()
	BuildPairs(p)
}
