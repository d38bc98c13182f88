// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// This file contains code to compute postorder numbering and the
// dominator tree of a control-flow graph, adapted from the teacher's
// dom.go. The teacher excerpt calls into `intersect` and a cached
// `f.postorder()` but does not ship the fixpoint driver that builds
// `idom`; `dominators` below is that driver, added in the same
// iterative Cooper-Harvey-Kennedy style the upstream compiler uses.

// postorder returns f's cached postorder traversal, computing it first if
// stale.
func (f *Func) postorder() []*Block {
	if f.cachedPostorder == nil {
		f.cachedPostorder = postorderWithNumbering(f, nil)
	}
	return f.cachedPostorder
}

type blockAndIndex struct {
	b     *Block
	index int // number of successor edges of b already explored
}

// postorderWithNumbering provides a DFS postordering, optionally filling
// in ponums[b.ID] = position in the ordering for every reachable b.
func postorderWithNumbering(f *Func, ponums []int32) []*Block {
	valid := make([]bool, f.NumBlocks())
	for i := range valid {
		valid[i] = true
	}
	return poWithNumberingForValidBlocks(f.Entry, valid, ponums)
}

func poWithNumberingForValidBlocks(entry *Block, valid []bool, ponums []int32) []*Block {
	f := entry.Func
	if len(valid) != f.NumBlocks() {
		f.Fatalf("length of valid blocks is expected to be %d", f.NumBlocks())
	}
	seen := f.Cache.allocBoolSlice(f.NumBlocks())
	defer f.Cache.freeBoolSlice(seen)

	order := make([]*Block, 0, len(f.Blocks))

	s := make([]blockAndIndex, 0, 32)
	s = append(s, blockAndIndex{b: entry})
	seen[entry.ID] = true
	for len(s) > 0 {
		tos := len(s) - 1
		x := s[tos]
		b := x.b
		if i := x.index; i < len(b.Succs) {
			s[tos].index++
			bb := b.Succs[i].Block()
			if valid[bb.ID] && !seen[bb.ID] {
				seen[bb.ID] = true
				s = append(s, blockAndIndex{b: bb})
			}
			continue
		}
		s = s[:tos]
		if ponums != nil {
			ponums[b.ID] = int32(len(order))
		}
		order = append(order, b)
	}
	return order
}

// intersect finds the closest common dominator of b and c, given a
// postorder numbering of all blocks and the (possibly partial) idom
// table built so far.
func intersect(b, c *Block, postnum []int32, idom []*Block) *Block {
	for b != c {
		if postnum[b.ID] < postnum[c.ID] {
			b = idom[b.ID]
		} else {
			c = idom[c.ID]
		}
	}
	return b
}

// dominators computes the immediate-dominator table for f, indexed by
// block ID, using the standard iterative fixpoint over postorder
// (Cooper, Harvey & Kennedy, "A Simple, Fast Dominance Algorithm").
func (f *Func) dominators() []*Block {
	if f.cachedIdom != nil {
		return f.cachedIdom
	}
	n := f.NumBlocks()
	ponums := make([]int32, n)
	po := postorderWithNumbering(f, ponums)

	idom := make([]*Block, n)
	idom[f.Entry.ID] = f.Entry

	changed := true
	for changed {
		changed = false
		// process in reverse postorder, skipping the entry
		for i := len(po) - 1; i >= 0; i-- {
			b := po[i]
			if b == f.Entry {
				continue
			}
			var newIdom *Block
			for _, e := range b.Preds {
				p := e.b
				if idom[p.ID] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
				} else {
					newIdom = intersect(newIdom, p, ponums, idom)
				}
			}
			if newIdom != idom[b.ID] {
				idom[b.ID] = newIdom
				changed = true
			}
		}
	}
	f.cachedIdom = idom
	return idom
}

// dominates reports whether a dominates b (a block dominates itself).
func (f *Func) dominates(a, b *Block) bool {
	idom := f.dominators()
	for b != nil {
		if b == a {
			return true
		}
		if b == f.Entry {
			return b == a
		}
		b = idom[b.ID]
	}
	return false
}

// sccAlternatingOrders finds the postorder and a modified reverse
// postorder within one SCC, used to drive the liveness oracle's 3-pass
// convergence over loop bodies (spec.md's liveness collaborator, see
// liveness.go).
func sccAlternatingOrders(scc []*Block) (exitward, entryward []*Block) {
	switch len(scc) {
	case 1:
		return scc, scc
	case 2:
		return scc, []*Block{scc[1], scc[0]}
	case 3:
		return order3BlockSCC(scc)
	default:
		return sccOrdersDFS(scc)
	}
}

// order3BlockSCC computes orderings for a 3-block SCC without full DFS.
func order3BlockSCC(scc []*Block) (exitward, entryward []*Block) {
	a, b, c := scc[0], scc[1], scc[2]
	f := a.Func

	inSCC := f.Cache.allocBoolSlice(f.NumBlocks())
	defer f.Cache.freeBoolSlice(inSCC)
	inSCC[a.ID] = true
	inSCC[b.ID] = true
	inSCC[c.ID] = true

	var aSucc *Block
	for _, s := range a.Succs {
		sb := s.Block()
		if inSCC[sb.ID] && sb != a {
			aSucc = sb
			break
		}
	}

	other := b
	if aSucc == b {
		other = c
	}

	aSuccReachesOther := false
	for _, s := range aSucc.Succs {
		if s.Block() == other {
			aSuccReachesOther = true
			break
		}
	}

	if aSuccReachesOther {
		entryward = []*Block{other, aSucc, a}
	} else {
		entryward = []*Block{aSucc, other, a}
	}

	exitward = []*Block{entryward[2], entryward[1], entryward[0]}
	return
}

// sccOrdersDFS computes orderings using full DFS for larger SCCs.
func sccOrdersDFS(scc []*Block) (exitward, entryward []*Block) {
	entry := scc[0]
	f := entry.Func

	valid := f.Cache.allocBoolSlice(f.NumBlocks())
	defer f.Cache.freeBoolSlice(valid)
	for _, b := range scc {
		valid[b.ID] = true
	}

	entryward = poWithNumberingForValidBlocks(entry, valid, nil)
	exitward = poWithNumberingForValidBlocks(entryward[0], valid, nil)
	return
}
