// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "testing"

// testConfig returns a Config with one register class ("GP") holding the
// named registers, all allocatable. Every test in this package that
// needs a Config builds it this way, mirroring the teacher's
// regalloc_bench_test.go testConfig helper but scaled down to what this
// package's tests actually exercise.
func testConfig(t testing.TB, names ...string) *Config {
	t.Helper()
	return NewConfig(map[RegClassID][]string{0: names})
}

// regByName looks up a named register in cfg's single class, failing the
// test if it is not found.
func regByName(t testing.TB, cfg *Config, name string) *Register {
	t.Helper()
	for _, rc := range cfg.Classes {
		for _, r := range rc.Registers {
			if r.Name == name {
				return r
			}
		}
	}
	t.Fatalf("register %s not found in config", name)
	return nil
}

// newGeneric appends a new plain data-mode instruction to b, wired to
// args, with no assigned register. Tests that need a register call
// v.Reg = ... afterward.
func newGeneric(f *Func, b *Block, args ...*Value) *Value {
	return f.NewValue(b, OpGeneric, ModeData, args...)
}

// newConst appends a register-free leaf value to b.
func newConst(f *Func, b *Block) *Value {
	return f.NewValue(b, OpConst, ModeData)
}

// linkGoto wires pred -> succ as pred's sole successor (an unconditional
// jump), the shape most of this package's tests need.
func linkGoto(f *Func, pred, succ *Block) {
	f.addEdge(pred, succ)
}
