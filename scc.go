// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "iter"

// This file implements strongly connected component (SCC) detection for
// control-flow graphs using the Kosaraju-Sharir algorithm, adapted
// near-verbatim from the teacher's scc.go. The teacher's likelyadjust.go
// calls `scc.IsLoop()`, `scc.IsReducible()`, `scc.Header()` and
// `lscc.Blocks` on the elements this produces, but the excerpt never
// defines that type; SCC below is that missing type.
//
// Kosaraju-Sharir was chosen over Tarjan's single-pass algorithm because
// it is straightforward to implement iteratively and requires no
// auxiliary data on graph nodes. Additionally, the first DFS pass
// (postorder) is typically already computed and cached, making this
// choice effectively free.
//
// sccPartition returns the strongly connected components of f's
// control-flow graph, topologically sorted by the kernel DAG. Each SCC
// corresponds to a loop (or trivial single-block component) in f.
//
// Properties:
//   - The first SCC contains only the entry block.
//   - Unreachable blocks are excluded from the result.
//   - The topological order of the kernel DAG may not be unique, but this
//     does not affect correctness for live range computation.
//   - Block order within each SCC is unspecified.

// SCC is one strongly connected component of a Func's control-flow
// graph: either a single block with no self-loop, or a genuine cycle.
type SCC struct {
	Blocks []*Block
}

// IsLoop reports whether the SCC represents a loop: more than one block,
// or a single block with a self-edge.
func (s *SCC) IsLoop() bool {
	if len(s.Blocks) > 1 {
		return true
	}
	if len(s.Blocks) == 1 {
		b := s.Blocks[0]
		for _, e := range b.Succs {
			if e.b == b {
				return true
			}
		}
	}
	return false
}

// Header returns the SCC's unique entry block — the block reached from
// outside the SCC — or nil if there is more than one (irreducible).
func (s *SCC) Header() *Block {
	in := make(map[ID]bool, len(s.Blocks))
	for _, b := range s.Blocks {
		in[b.ID] = true
	}
	var header *Block
	for _, b := range s.Blocks {
		external := false
		for _, e := range b.Preds {
			if !in[e.b.ID] {
				external = true
				break
			}
		}
		if external {
			if header != nil {
				return nil // more than one external entry: irreducible
			}
			header = b
		}
	}
	if header == nil && len(s.Blocks) > 0 {
		// no predecessors at all from outside; this is the entry SCC.
		header = s.Blocks[0]
	}
	return header
}

// IsReducible reports whether the SCC has exactly one entry block.
func (s *SCC) IsReducible() bool {
	if !s.IsLoop() {
		return true
	}
	return s.Header() != nil
}

// SCCs yields f's strongly connected components, topologically sorted
// by the kernel DAG (entry SCC first). The iterator pattern avoids
// allocating the result slice when callers only need a single traversal.
func (f *Func) SCCs() iter.Seq[*SCC] {
	return func(yield func(*SCC) bool) {
		po := f.postorder()

		seen := make([]bool, f.NumBlocks())
		reachable := make([]bool, f.NumBlocks())
		for _, b := range po {
			reachable[b.ID] = true
		}

		queue := make([]*Block, 0, len(po))

		for i := len(po) - 1; i >= 0; i-- {
			leader := po[i]
			if seen[leader.ID] {
				continue
			}

			blocks := make([]*Block, 0, 4)
			queue = append(queue, leader)
			seen[leader.ID] = true

			for len(queue) > 0 {
				b := queue[0]
				queue = queue[1:]
				blocks = append(blocks, b)

				for _, e := range b.Preds {
					pred := e.b
					if reachable[pred.ID] && !seen[pred.ID] {
						seen[pred.ID] = true
						queue = append(queue, pred)
					}
				}
			}

			if !yield(&SCC{Blocks: blocks}) {
				return
			}
		}
	}
}

// sccPartition returns all SCCs as a slice for callers that need random
// access (Func.sccs caches this). Prefer Func.SCCs when iterating once.
func sccPartition(f *Func) []SCC {
	var result []SCC
	for scc := range f.SCCs() {
		result = append(result, *scc)
	}
	return result
}
