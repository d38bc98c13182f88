// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// PushThroughOutcome reports what PushThroughPerm did to a permutation
// node (spec.md §4.5, "Outcome").
type PushThroughOutcome int8

const (
	PermStays PushThroughOutcome = iota
	PermGone
	PermReduced
)

// pushThroughPerm implements Perm Push-Through (spec.md §4.5): it sinks
// the scheduled predecessors of p that merely produce one of p's own
// operands past p, shrinking or eliminating p before the Pair Builder
// ever sees it. See driver.go's PushThroughPerm for the exported,
// liveness-computing entry point spec.md §6 names.
func pushThroughPerm(p *Value, lo *LivenessOracle) PushThroughOutcome {
	f := p.Block.Func
	if p.Op != OpPermute {
		f.Fatalf("pushThroughPerm called on non-permutation %s", p)
	}
	class := permClass(p)
	if class == nil {
		return PermStays
	}

	frontier := findFrontier(p, lo, class.ID)
	projs := p.projections()
	moved := make([]bool, len(p.Args))
	anyMoved := false

	sched := ScheduleOf(p.Block)
	candidate := Prev(p)
	for candidate != nil && candidate != frontier {
		prevCandidate := Prev(candidate)

		idx := matchingSlot(p, candidate)
		if idx < 0 || projs[idx] == nil || !movable(candidate, class.ID) {
			break
		}
		q := projs[idx]

		sched.Remove(candidate)
		sched.InsertAfter(p, candidate)
		candidate.Reg = q.reg()
		q.replaceUses(candidate)
		sched.Remove(q)

		moved[idx] = true
		anyMoved = true
		candidate = prevCandidate
	}

	if !anyMoved {
		return PermStays
	}

	allMoved := true
	for _, m := range moved {
		if !m {
			allMoved = false
			break
		}
	}
	if allMoved {
		sched.Remove(p)
		for i := range p.Args {
			p.setArg(i, nil)
		}
		return PermGone
	}

	shrinkPerm(p, moved)
	return PermReduced
}

// matchingSlot reports which operand slot of p candidate produces, or -1
// if candidate is not (directly) one of p's operands.
func matchingSlot(p, candidate *Value) int {
	for i, a := range p.Args {
		if a == candidate {
			return i
		}
	}
	return -1
}

// movable implements the parts of spec.md §4.5's movability predicate
// that concern n alone (no flag clobbering, no output constraint, no
// same-class operand register), and also rejects phis. "Produces one of
// p's operands" (matchingSlot) and "lies strictly after the frontier"
// (the loop bound) are enforced by the caller, not re-checked here.
func movable(n *Value, class RegClassID) bool {
	if n.Op == OpPhi {
		return false
	}
	if n.ClobbersFlags {
		return false
	}
	if n.Constraint != nil {
		return false
	}
	for _, a := range n.Args {
		if r := a.reg(); !isNoRegister(r) && r.Class == class {
			return false
		}
	}
	return true
}

// findFrontier walks back from p's predecessor looking for the nearest
// instruction whose output occupies p's register class without
// interfering with any of p's own projections — the boundary past which
// sinking a candidate is unsafe (spec.md §4.5, "Frontier discovery").
func findFrontier(p *Value, lo *LivenessOracle, class RegClassID) *Value {
	for v := Prev(p); v != nil; v = Prev(v) {
		if matchingSlot(p, v) >= 0 {
			// p's own operands are candidates, never the frontier that
			// bounds them.
			continue
		}
		if !needsReg(v) {
			continue
		}
		r := v.reg()
		if isNoRegister(r) || r.Class != class {
			continue
		}
		interferes := false
		for _, q := range p.projections() {
			if q == nil {
				continue
			}
			if lo.ValuesInterfere(v, q) {
				interferes = true
				break
			}
		}
		if !interferes {
			return v
		}
	}
	return nil
}

// shrinkPerm rebuilds p's operand array keeping only the slots that were
// not moved, and renumbers the surviving projections contiguously
// (spec.md §4.5, "shrink P").
func shrinkPerm(p *Value, moved []bool) {
	oldArgs := p.Args
	newArgs := make([]*Value, 0, len(oldArgs))
	keepIdx := make([]int, 0, len(oldArgs))
	for i, a := range oldArgs {
		if moved[i] {
			if a != nil {
				a.removeUser(p)
			}
			continue
		}
		newArgs = append(newArgs, a)
		keepIdx = append(keepIdx, i)
	}
	p.Args = newArgs

	for newI, oldI := range keepIdx {
		for _, u := range p.users {
			if u.Op == OpProj && int(u.AuxInt) == oldI {
				u.AuxInt = int64(newI)
			}
		}
	}
}
