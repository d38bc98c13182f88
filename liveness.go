// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// This file implements the concrete Liveness Oracle this module ships to
// satisfy the `live_at_end(block)` / `values_interfere(a, b)` collaborator
// contract spec.md §1 treats as external. It is adapted from the
// teacher's regalloc.go `computeLive` family — the distinctive part of
// this teacher's fork of cmd/compile/internal/ssa — stripped of the
// desiredState/register-preference bookkeeping, which belongs to
// register *selection*, an explicit Non-goal (spec.md §1). What remains
// is exactly the three-tier dispatch the teacher built and measured
// against 290,000 real functions:
//   - acyclic CFGs (no loops): one postorder pass, no SCCs.
//   - simple loop nests: plain iteration to a fixpoint.
//   - everything else: SCC decomposition with 3-pass alternating order.

// LivenessOracle answers the two queries the lowering components need:
// which values are live at the end of a block, and whether two values
// ever interfere (are simultaneously live).
type LivenessOracle struct {
	f    *Func
	live [][]ID   // live[b.ID] = values live at the end of b
	byID []*Value // ID -> Value, snapshotted when the oracle was built
}

// ComputeLiveness runs the liveness analysis over f and returns an oracle
// answering queries against the result. Mirrors the teacher's
// regAllocState.computeLive, entered fresh each time the caller needs an
// up-to-date answer (spec.md §5: liveness must be recomputed after any
// pass invalidates it).
func ComputeLiveness(f *Func) *LivenessOracle {
	lo := &LivenessOracle{f: f}
	lo.byID = make([]*Value, f.NumValues())
	for _, b := range f.Blocks {
		for _, v := range b.Values() {
			lo.byID[v.ID] = v
		}
	}
	lo.computeLive()
	f.livenessValid = true
	return lo
}

// LiveAtEnd returns the (unordered) set of value IDs live at the end of
// block b — spec.md's live_at_end(block).
func (lo *LivenessOracle) LiveAtEnd(b *Block) []ID {
	if int(b.ID) >= len(lo.live) {
		return nil
	}
	return lo.live[b.ID]
}

// LiveValuesAtEnd is LiveAtEnd resolved back to *Value.
func (lo *LivenessOracle) LiveValuesAtEnd(b *Block) []*Value {
	ids := lo.LiveAtEnd(b)
	out := make([]*Value, 0, len(ids))
	for _, id := range ids {
		if int(id) < len(lo.byID) && lo.byID[id] != nil {
			out = append(out, lo.byID[id])
		}
	}
	return out
}

// ValuesInterfere reports whether a and b are ever simultaneously live —
// spec.md's values_interfere(a, b). Two distinct values interfere if some
// program point has both live: either they appear together in some
// block's live-at-end set, or one is defined while the other is still
// live within the same block.
func (lo *LivenessOracle) ValuesInterfere(a, b *Value) bool {
	if a == b {
		return false
	}
	for _, blk := range lo.f.Blocks {
		if lo.pairLiveInBlock(blk, a.ID, b.ID) {
			return true
		}
	}
	return false
}

func (lo *LivenessOracle) pairLiveInBlock(b *Block, aID, bID ID) bool {
	set := lo.f.newSparseSet(lo.f.NumValues())
	defer lo.f.retSparseSet(set)
	for _, id := range lo.live[b.ID] {
		set.add(id)
	}
	if set.contains(aID) && set.contains(bID) {
		return true
	}
	values := b.Values()
	for i := len(values) - 1; i >= 0; i-- {
		v := values[i]
		set.remove(v.ID)
		for _, a := range v.Args {
			if needsReg(a) {
				set.add(a.ID)
			}
		}
		if set.contains(aID) && set.contains(bID) {
			return true
		}
	}
	return false
}

// needsReg reports whether v is the kind of value liveness tracks at
// all: a data-producing value that will occupy a register. Control and
// tuple-mode parents (whose results surface only through Proj) are
// excluded, matching spec.md §3's "every data-producing node in the
// interesting register classes carries a non-null register".
func needsReg(v *Value) bool {
	return v != nil && (v.Mode == ModeData) && v.Op != OpConst
}

func (lo *LivenessOracle) computeLive() {
	f := lo.f
	lo.live = make([][]ID, f.NumBlocks())
	if len(f.Blocks) <= 1 {
		return
	}

	po := f.postorder()
	ln := f.loopnest()

	live := f.newSparseSet(f.NumValues())
	defer f.retSparseSet(live)
	t := f.newSparseSet(f.NumValues())
	defer f.retSparseSet(t)

	// FAST PATH: acyclic CFGs — a single postorder pass suffices. An
	// irreducible region registers no Header() and so never lands in
	// ln.loops, but the CFG still has a back edge; len(ln.loops) alone
	// would wrongly call that acyclic.
	if len(ln.loops) == 0 && !ln.hasIrreducible {
		lo.computeLiveAcyclic(po, live, t)
		return
	}

	// FAST PATH: simple (shallow, non-irreducible) loop nests.
	if !ln.hasIrreducible && ln.allLoopsSimple(3) {
		lo.computeLiveIterative(po, live, t)
		return
	}

	// GENERAL PATH: SCC decomposition, 3-pass alternating convergence.
	lo.computeLiveWithSCCs(po, live, t)
}

func (lo *LivenessOracle) computeLiveAcyclic(po []*Block, live, t *sparseSet) {
	for _, b := range po {
		lo.processBlock(b, live, t)
	}
}

func (lo *LivenessOracle) computeLiveIterative(po []*Block, live, t *sparseSet) {
	for {
		changed := false
		for _, b := range po {
			if lo.processBlock(b, live, t) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}

func (lo *LivenessOracle) computeLiveWithSCCs(po []*Block, live, t *sparseSet) {
	f := lo.f
	sccs := f.sccs()

	for j := len(sccs) - 1; j >= 0; j-- {
		scc := &sccs[j]

		if len(scc.Blocks) == 1 {
			lo.processBlock(scc.Blocks[0], live, t)
			continue
		}

		exitward, entryward := sccAlternatingOrders(scc.Blocks)
		for _, b := range exitward {
			lo.processBlock(b, live, t)
		}
		for _, b := range entryward {
			lo.processBlock(b, live, t)
		}
		for _, b := range exitward {
			lo.processBlock(b, live, t)
		}
	}
}

// processBlock recomputes what's live at the start of b (from what's live
// at its end plus its own uses/defs) and propagates that back into every
// predecessor's live-at-end set. Returns true if any predecessor's set
// changed, driving the iterative/SCC fixpoints above. Adapted from the
// teacher's regAllocState.processBlock with the distance/desired-register
// bookkeeping removed.
func (lo *LivenessOracle) processBlock(b *Block, live, t *sparseSet) bool {
	live.clear()
	for _, id := range lo.live[b.ID] {
		live.add(id)
	}

	// Phi arguments are live at the end of the corresponding predecessor.
	for _, e := range b.Succs {
		succ := e.b
		for _, v := range succ.Values() {
			if v.Op != OpPhi {
				break
			}
			arg := v.Args[e.i]
			if needsReg(arg) {
				live.add(arg.ID)
			}
		}
	}

	for _, c := range b.ControlValues() {
		if needsReg(c) {
			live.add(c.ID)
		}
	}

	values := b.Values()
	for i := len(values) - 1; i >= 0; i-- {
		v := values[i]
		live.remove(v.ID)
		if v.Op == OpPhi {
			continue
		}
		for _, a := range v.Args {
			if needsReg(a) {
				live.add(a.ID)
			}
		}
	}

	changed := false
	for _, e := range b.Preds {
		p := e.b
		t.clear()
		for _, id := range lo.live[p.ID] {
			t.add(id)
		}
		update := false
		for _, id := range live.contents() {
			if !t.contains(id) {
				t.add(id)
				update = true
			}
		}
		if update {
			lo.live[p.ID] = append(lo.live[p.ID][:0], t.contents()...)
			changed = true
		}
	}
	return changed
}
