// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import (
	"strconv"
	"testing"
)

// buildLinearChain builds entry -> b0 -> b1 -> ... -> b{n-1} -> exit, each
// block defining a value that stays live for a few blocks, exercising the
// acyclic liveness tier.
func buildLinearChain(tb testing.TB, n int) *Func {
	tb.Helper()
	cfg := testConfig(tb, "R1")
	f := NewFunc("f", cfg)
	entry := f.NewBlock()
	base := newConst(f, entry)

	prev := entry
	vals := make([]*Value, n)
	for i := 0; i < n; i++ {
		b := f.NewBlock()
		linkGoto(f, prev, b)
		src := base
		if i >= 3 {
			src = vals[i-3]
		}
		vals[i] = newGeneric(f, b, src)
		prev = b
	}
	exit := f.NewBlock()
	linkGoto(f, prev, exit)
	newGeneric(f, exit, vals[n-1])
	f.Entry = entry
	return f
}

// buildLoopNest builds entry -> header -> body -> header (loop) -> exit,
// repeated depth times nested inside one another: the innermost body
// branches back to every header. Nests deeper than three exercise the
// SCC-based liveness tier; shallower ones the iterative tier.
func buildLoopNest(tb testing.TB, depth int) *Func {
	tb.Helper()
	cfg := testConfig(tb, "R1")
	f := NewFunc("f", cfg)
	entry := f.NewBlock()
	v := newConst(f, entry)
	f.Entry = entry

	cur := entry
	headers := make([]*Block, 0, depth)
	for i := 0; i < depth; i++ {
		header := f.NewBlock()
		body := f.NewBlock()
		linkGoto(f, cur, header)
		linkGoto(f, header, body)
		v = newGeneric(f, body, v)
		headers = append(headers, header)
		cur = body
	}
	for _, h := range headers {
		f.addEdge(cur, h)
	}
	exit := f.NewBlock()
	linkGoto(f, cur, exit)
	newGeneric(f, exit, v)
	return f
}

func BenchmarkComputeLivenessLinearChain(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		f := buildLinearChain(b, n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				ComputeLiveness(f)
			}
		})
	}
}

func BenchmarkComputeLivenessLoopNest(b *testing.B) {
	for _, depth := range []int{2, 8, 32} {
		f := buildLoopNest(b, depth)
		b.Run(strconv.Itoa(depth), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				ComputeLiveness(f)
			}
		})
	}
}
