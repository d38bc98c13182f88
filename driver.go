// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// This file exposes the three entry points spec.md §6 names for the
// surrounding backend driver, each recovering a Fatalf-raised *ice into a
// returned error rather than letting it cross the package boundary —
// the same discipline the teacher's own compiler driver uses around
// f.Fatalf.

// LowerNodesAfterRA runs Push-Through, then (for whatever remains) the
// Pair Builder, Cycle Decomposer, and Move Emitter, on every permutation
// node in f. Pre: liveness sets computed, all data nodes carry assigned
// physical registers. Post: no permutation node of arity > 2 remains,
// except arity-2 cycles (already exchanges). Invalidates liveness on
// return (spec.md §6).
func LowerNodesAfterRA(f *Func) (err error) {
	defer recoverICE(&err)

	lo := ComputeLiveness(f)
	frm := ComputeFreeRegisters(f, lo)

	for _, b := range f.Blocks {
		for _, p := range permutesIn(b) {
			lowerOnePermutation(f, p, lo, frm)
		}
	}

	f.invalidateLiveness()
	return nil
}

// AssureConstraints runs the Constraint Assurer over every block of f.
// Pre: schedule exists, constraint annotations present on every
// output-producing node. Post: every must-differ constraint is satisfied
// by a keep edge forcing the two values to be simultaneously live
// (spec.md §6).
func AssureConstraints(f *Func) (err error) {
	defer recoverICE(&err)
	assureConstraints(f)
	return nil
}

// PushThroughPerm is the standalone entry point (spec.md §6): it runs
// Push-Through on a single permutation node and reports whether it still
// requires lowering (true) or was eliminated entirely (false).
func PushThroughPerm(perm *Value) (stillNeedsLowering bool, err error) {
	defer recoverICE(&err)
	lo := ComputeLiveness(perm.Block.Func)
	outcome := pushThroughPerm(perm, lo)
	return outcome != PermGone, nil
}

// permutesIn snapshots the OpPermute values currently scheduled in b.
// Lowering one permutation mutates b's schedule, so the iteration order
// must be captured up front.
func permutesIn(b *Block) []*Value {
	var out []*Value
	for _, v := range b.Values() {
		if v.Op == OpPermute {
			out = append(out, v)
		}
	}
	return out
}

// lowerOnePermutation runs the full per-node pipeline: Push-Through, then
// (unless the degenerate arity-2-cycle case applies or Push-Through
// already consumed it entirely) Pair Builder, Cycle Decomposer, and Move
// Emitter.
func lowerOnePermutation(f *Func, p *Value, lo *LivenessOracle, frm *FreeRegisterMap) {
	outcome := pushThroughPerm(p, lo)
	if outcome == PermGone {
		return
	}

	if isExchangeAlready(p) {
		return
	}

	pairs := BuildPairs(p)
	if len(pairs) == 0 {
		// Every slot was a no-op; BuildPairs already spliced each
		// projection onto its operand, so p has no remaining work.
		ScheduleOf(p.Block).Remove(p)
		for i := range p.Args {
			p.setArg(i, nil)
		}
		return
	}

	descs := DecomposeCycles(p, pairs)
	EmitMoves(p, pairs, descs, frm)
}

// isExchangeAlready reports the degenerate case of spec.md §4.3: an
// arity-2 permutation that is a single cycle already is an exchange, and
// lowering must leave it untouched.
func isExchangeAlready(p *Value) bool {
	if len(p.Args) != 2 {
		return false
	}
	projs := p.projections()
	if len(projs) != 2 || projs[0] == nil || projs[1] == nil {
		return false
	}
	a0, a1 := p.Args[0], p.Args[1]
	r0, r1 := a0.reg(), a1.reg()
	if isNoRegister(r0) || isNoRegister(r1) || r0 == r1 {
		return false
	}
	return projs[0].reg() == r1 && projs[1].reg() == r0
}

// recoverICE turns a Fatalf-raised *ice into *err, matching spec.md §7's
// "all insertions are local; the only fatal condition ... indicates
// graph corruption" discipline: fatal conditions propagate as errors to
// the caller, never as an uncaught panic.
func recoverICE(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(*ice); ok {
			*err = e
			return
		}
		panic(r)
	}
}
