// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// BuildPairs implements the Pair Builder (spec.md §4.1): it extracts the
// register-transfer pairs a permutation node p represents, eliding slots
// whose input and output already share a register.
//
// Contract (spec.md §4.1): every returned pair has InReg != OutReg, and
// the multiset of InReg values equals the multiset of OutReg values
// (the permutation property, inherited from p's own invariant).
func BuildPairs(p *Value) []*RegPair {
	if p.Op != OpPermute {
		p.Block.Func.Fatalf("BuildPairs called on non-permutation %s", p)
	}
	projs := p.projections()
	var pairs []*RegPair
	for i, q := range projs {
		if q == nil {
			// No user reads this slot; nothing to realize.
			continue
		}
		vi := p.Args[i]
		if isNoRegister(vi.reg()) || isNoRegister(q.reg()) {
			p.Block.Func.Fatalf("unassigned register on permutation %s slot %d", p, i)
		}
		if vi.reg() == q.reg() {
			// No-op slot: splice q's users onto vi directly and drop q.
			q.replaceUses(vi)
			ScheduleOf(q.Block).Remove(q)
			continue
		}
		pairs = append(pairs, &RegPair{
			InReg:   vi.reg(),
			InValue: vi,
			OutReg:  q.reg(),
			OutVal:  q,
		})
	}
	return pairs
}
