// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "fmt"

// pass carries the debug/stats verbosity the teacher's regalloc.go and
// likelyadjust.go gate their fmt.Printf diagnostics on (f.pass.debug,
// f.pass.stats). There is no structured logger anywhere in the retrieval
// pack, so this module keeps the same scheme rather than introduce one.
type pass struct {
	name  string
	debug int
	stats int
}

const regDebug = 0 // matches teacher's threshold: debug > regDebug prints

// Func is one function's IR graph: the unit every entry point in
// driver.go operates on.
type Func struct {
	Name   string
	Config *Config
	Cache  *Cache
	Entry  *Block
	Blocks []*Block

	pass *pass

	ids idAlloc

	// caches invalidated by invalidateCFG / liveness passes
	cachedPostorder []*Block
	cachedIdom      []*Block
	cachedSCCs      []SCC
	cachedLoopnest  *loopnest

	livenessValid bool
}

// NewFunc creates an empty Func ready for blocks to be appended to it.
func NewFunc(name string, cfg *Config) *Func {
	return &Func{
		Name:   name,
		Config: cfg,
		Cache:  newCache(),
		pass:   &pass{name: name},
	}
}

// NumBlocks returns one more than the largest block ID in use, matching
// the teacher's f.NumBlocks() contract (used to size ID-indexed slices).
func (f *Func) NumBlocks() int {
	n := 0
	for _, b := range f.Blocks {
		if int(b.ID)+1 > n {
			n = int(b.ID) + 1
		}
	}
	return n
}

// NumValues returns one more than the largest ID handed out so far.
// Values and blocks share one ID space, so this bounds every value ID.
func (f *Func) NumValues() int { return int(f.ids.next) }

// NewBlock appends a fresh block to f and returns it.
func (f *Func) NewBlock() *Block {
	b := &Block{ID: f.ids.get(), Func: f}
	f.Blocks = append(f.Blocks, b)
	if f.Entry == nil {
		f.Entry = b
	}
	f.invalidateCFG()
	return b
}

// NewValue creates a value of the given op/mode in block b, with the
// given operands, and appends it to b's schedule.
func (f *Func) NewValue(b *Block, op Op, mode Mode, args ...*Value) *Value {
	v := &Value{ID: f.ids.get(), Op: op, Mode: mode, Block: b}
	v.Args = make([]*Value, len(args))
	for i, a := range args {
		v.setArg(i, a)
	}
	ScheduleOf(b).Append(v)
	return v
}

// addEdge links pred -> succ, recording the index of each edge's reverse
// at the far end, as processBlock's "e.b"/"e.i" access pattern requires.
func (f *Func) addEdge(pred, succ *Block) {
	pi := len(pred.Succs)
	si := len(succ.Preds)
	pred.Succs = append(pred.Succs, Edge{b: succ, i: si})
	succ.Preds = append(succ.Preds, Edge{b: pred, i: pi})
	f.invalidateCFG()
}

// SetDebug sets the debug verbosity likelyadjust.go's f.pass.debug gates
// its diagnostic fmt.Printf calls on, mirroring the compiler's
// `-d=ssa/...,debug=N` flags; the firmlower CLI wires this to --debug.
func (f *Func) SetDebug(level int) { f.pass.debug = level }

// SetStats sets the stats verbosity likelyadjust.go's LogStat gates on;
// the firmlower CLI wires this to --stats.
func (f *Func) SetStats(level int) { f.pass.stats = level }

// AddEdge links pred -> succ. Exported for callers outside the package
// that build a Func from scratch (internal/irtext's textual IR reader);
// internal callers use the unexported addEdge directly.
func (f *Func) AddEdge(pred, succ *Block) { f.addEdge(pred, succ) }

// sccs returns the cached SCCs for f, computing if necessary. Adapted
// from the teacher's func.go (its two one-line cache helpers are exactly
// what a Func needs regardless of domain).
func (f *Func) sccs() []SCC {
	if f.cachedSCCs == nil {
		f.cachedSCCs = sccPartition(f)
	}
	return f.cachedSCCs
}

func (f *Func) loopnest() *loopnest {
	if f.cachedLoopnest == nil {
		f.cachedLoopnest = loopnestfor(f)
	}
	return f.cachedLoopnest
}

// invalidateCFG tells f that its CFG has changed: block/edge shape, not
// just instruction order within a block.
func (f *Func) invalidateCFG() {
	f.cachedPostorder = nil
	f.cachedIdom = nil
	f.cachedSCCs = nil
	f.cachedLoopnest = nil
}

// invalidateLiveness marks the liveness/interference oracle stale. Per
// spec.md §5, the lowering pass must invalidate liveness as its last act;
// downstream passes recompute.
func (f *Func) invalidateLiveness() { f.livenessValid = false }

// Fatalf reports an invariant violation (spec.md §7) and aborts the
// current pass via panic; driver.go recovers it at the entry-point
// boundary and returns it as an error, the same discipline the real
// compiler uses for f.Fatalf.
func (f *Func) Fatalf(msg string, args ...interface{}) {
	panic(&ice{fmt.Sprintf("%s: %s", f.Name, fmt.Sprintf(msg, args...))})
}

// ice is an internal compiler error: the panic value Fatalf raises.
type ice struct{ msg string }

func (e *ice) Error() string { return e.msg }
