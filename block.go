// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "fmt"

// Edge is a predecessor/successor edge between blocks, carrying the
// index of the reverse edge at the far end (used the same way the
// teacher's processBlock uses e.b/e.i: "arg := v.Args[e.i]" to find which
// phi input corresponds to this edge).
type Edge struct {
	b *Block
	i int
}

func (e Edge) Block() *Block { return e.b }
func (e Edge) Index() int    { return e.i }

// Block is one basic block: a node in the Func's control-flow graph and
// the owner of a per-block instruction Schedule (spec.md §3).
type Block struct {
	ID    ID
	Func  *Func
	Pos   Pos
	Preds []Edge
	Succs []Edge

	Control []*Value // values read as the block's branch condition(s)

	// Schedule linkage: doubly-linked list of this block's Values.
	schedFirst, schedLast *Value

	valuesCache      []*Value
	valuesCacheValid bool
}

func (b *Block) String() string {
	if b == nil {
		return "<nil>"
	}
	return fmt.Sprintf("b%d", b.ID)
}

// Values returns the block's instructions in schedule order. The slice is
// cached and invalidated by any Schedule mutation (insertBefore,
// insertAfter, remove) so repeated calls between mutations are cheap,
// matching how liveness walks the same block many times per pass.
func (b *Block) Values() []*Value {
	if !b.valuesCacheValid {
		b.valuesCache = b.valuesCache[:0]
		for v := b.schedFirst; v != nil; v = v.schedNext {
			b.valuesCache = append(b.valuesCache, v)
		}
		b.valuesCacheValid = true
	}
	return b.valuesCache
}

func (b *Block) invalidateValues() { b.valuesCacheValid = false }

// ControlValues returns the values the block's terminator reads, mirroring
// the teacher's b.ControlValues() call in processBlock.
func (b *Block) ControlValues() []*Value { return b.Control }
