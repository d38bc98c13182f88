// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// MoveKind distinguishes the two shapes a register permutation
// decomposes into (spec.md §3, Move descriptor).
type MoveKind int8

const (
	MoveChain MoveKind = iota
	MoveCycle
)

// MoveDescriptor is one chain or cycle the Cycle Decomposer produced. See
// spec.md §3 for the exact semantics of elems for each kind:
//
//   - Chain [r0, r1, ..., r_{k-1}]: value in r_{k-2} moves to r_{k-1},
//     ..., finally r_0 moves to r_1. r_0's original inhabitant is dead
//     after the permutation.
//   - Cycle [r0, r1, ..., r_{k-1}]: the value in r_i ends up in
//     r_{(i+1) mod k}; every register is simultaneously source and dest.
type MoveDescriptor struct {
	Kind  MoveKind
	Elems []*Register
}
