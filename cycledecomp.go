// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// DecomposeCycles implements the Cycle Decomposer (spec.md §4.2): it
// partitions pairs into disjoint MoveDescriptors, each a chain or a
// cycle, with every pair assigned to exactly one descriptor.
//
// Register identity is by pointer (Registers are singleton instances
// handed out by Config), so a bijective permutation guarantees each
// register appears as exactly one pair's InReg and exactly one pair's
// OutReg among the pairs passed in — the property the backward/forward
// walks below rely on.
func DecomposeCycles(p *Value, pairs []*RegPair) []*MoveDescriptor {
	if len(pairs) == 0 {
		return nil
	}
	byIn := make(map[*Register]*RegPair, len(pairs))
	byOut := make(map[*Register]*RegPair, len(pairs))
	for _, pr := range pairs {
		byIn[pr.InReg] = pr
		byOut[pr.OutReg] = pr
	}

	var result []*MoveDescriptor
	bound := len(pairs) + 1

	for {
		var s *RegPair
		for _, pr := range pairs {
			if !pr.checked {
				s = pr
				break
			}
		}
		if s == nil {
			break
		}

		start, isCycle := backwardWalk(p, s, byOut, bound)
		elems := forwardWalk(start, isCycle, byIn)

		kind := MoveChain
		if isCycle {
			kind = MoveCycle
		}
		result = append(result, &MoveDescriptor{Kind: kind, Elems: elems})
	}
	return result
}

// backwardWalk finds the start of the chain or cycle containing s: the
// free source register of a chain, or (arbitrarily) s's own in-register
// for a cycle, since every register in a cycle is equally valid as a
// starting point.
func backwardWalk(p *Value, s *RegPair, byOut map[*Register]*RegPair, bound int) (start *Register, isCycle bool) {
	origHead := s.InReg
	head := origHead
	for i := 0; i < bound; i++ {
		pr, ok := byOut[head]
		if !ok {
			return head, false
		}
		head = pr.InReg
		if head == origHead {
			return head, true
		}
	}
	p.Block.Func.Fatalf("cycle decomposition failed to terminate for %s", p)
	return nil, false
}

// forwardWalk records the chain/cycle's registers in move order and
// marks every pair it touches as checked.
func forwardWalk(start *Register, isCycle bool, byIn map[*Register]*RegPair) []*Register {
	elems := []*Register{start}
	current := start
	for {
		pr, ok := byIn[current]
		if !ok || pr.checked {
			break
		}
		next := pr.OutReg
		pr.checked = true
		if isCycle && next == start {
			break
		}
		elems = append(elems, next)
		current = next
	}
	return elems
}
