// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// ReconstructSSA is the SSA reconstruction service spec.md §1 treats as
// an external collaborator ("add a new definition, have it find correct
// users") and §4.6 drives directly. Given an original definition orig
// and the copies that now also define its value, it repoints every
// existing user of orig to whichever definition dominates that use.
//
// The teacher pack's equivalent (Go-zh-go.old's sparsetreemap.go) builds
// a full SparseTreeMap over a red-black tree to answer nearest-dominating-
// definition queries with range operations. At this module's scale a
// plain dominator-tree walk answers the same question directly, so that
// machinery is not reconstructed here; see DESIGN.md.
func ReconstructSSA(orig *Value, copies []*Value) {
	f := orig.Block.Func
	defs := make([]*Value, 0, len(copies)+1)
	defs = append(defs, orig)
	defs = append(defs, copies...)

	isCopy := make(map[*Value]bool, len(copies))
	for _, cp := range copies {
		isCopy[cp] = true
	}

	for _, u := range orig.Users() {
		if isCopy[u] {
			// A copy's own source argument names orig by construction;
			// it is a def here, not a use to repoint.
			continue
		}
		for i, a := range u.Args {
			if a != orig {
				continue
			}
			best := nearestDominatingDef(u, defs)
			if best == nil {
				f.Fatalf("SSA reconstruction: no definition of %s dominates use in %s", orig, u)
			}
			if best != a {
				u.setArg(i, best)
			}
		}
	}
}

// nearestDominatingDef returns whichever of defs dominates the use site
// u and is not itself dominated by another candidate that also does —
// i.e. the closest one.
func nearestDominatingDef(u *Value, defs []*Value) *Value {
	var best *Value
	for _, d := range defs {
		if !reachesUse(d, u) {
			continue
		}
		if best == nil || reachesUse(best, d) {
			best = d
		}
	}
	return best
}

// reachesUse reports whether a value produced at def's position can
// reach a use at target's position: either def's block strictly
// dominates target's block, or they share a block and def is scheduled
// before target.
func reachesUse(def, target *Value) bool {
	if def == target {
		return true
	}
	if def.Block == target.Block {
		for n := Prev(target); n != nil; n = Prev(n) {
			if n == def {
				return true
			}
		}
		return false
	}
	return def.Block.Func.dominates(def.Block, target.Block)
}
