// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// This file implements the per-block Schedule (spec.md §3): a
// doubly-linked order over a block's Values supporting prev/next/
// insert_before/insert_after/remove, the primitive every lowering
// component in this package rewrites through. It plays the role the
// teacher's schedule.go (from the same package lineage, see
// Go-zh-go.old/src/cmd/compile/internal/ssa/schedule.go) plays for
// building an order from dependency scores — here the order already
// exists (produced upstream, out of scope per spec.md §1) and this file
// only maintains it under local surgery.

// Schedule is a thin handle onto one Block's instruction order.
type Schedule struct {
	b *Block
}

// ScheduleOf returns the Schedule for b.
func ScheduleOf(b *Block) Schedule { return Schedule{b: b} }

// Prev returns the instruction immediately before v in its block, or nil
// if v is the first.
func Prev(v *Value) *Value { return v.schedPrev }

// Next returns the instruction immediately after v in its block, or nil
// if v is the last.
func Next(v *Value) *Value { return v.schedNext }

// First returns the first scheduled instruction in b, or nil if empty.
func (s Schedule) First() *Value { return s.b.schedFirst }

// Last returns the last scheduled instruction in b, or nil if empty.
func (s Schedule) Last() *Value { return s.b.schedLast }

// InsertAfter splices v into the block immediately after anchor. anchor
// must already be scheduled in this block (or be nil, meaning "at the
// front").
func (s Schedule) InsertAfter(anchor, v *Value) {
	b := s.b
	v.Block = b
	if anchor == nil {
		v.schedPrev = nil
		v.schedNext = b.schedFirst
		if b.schedFirst != nil {
			b.schedFirst.schedPrev = v
		} else {
			b.schedLast = v
		}
		b.schedFirst = v
		b.invalidateValues()
		return
	}
	v.schedPrev = anchor
	v.schedNext = anchor.schedNext
	if anchor.schedNext != nil {
		anchor.schedNext.schedPrev = v
	} else {
		b.schedLast = v
	}
	anchor.schedNext = v
	b.invalidateValues()
}

// InsertBefore splices v into the block immediately before anchor.
func (s Schedule) InsertBefore(anchor, v *Value) {
	b := s.b
	v.Block = b
	if anchor == nil {
		s.InsertAfter(b.schedLast, v)
		return
	}
	prev := anchor.schedPrev
	if prev == nil {
		v.schedPrev = nil
		v.schedNext = anchor
		anchor.schedPrev = v
		b.schedFirst = v
		b.invalidateValues()
		return
	}
	s.InsertAfter(prev, v)
}

// Remove unlinks v from its block's schedule. v's operand/user edges are
// untouched; callers that delete v entirely must also clear its Args.
func (s Schedule) Remove(v *Value) {
	b := s.b
	if v.schedPrev != nil {
		v.schedPrev.schedNext = v.schedNext
	} else {
		b.schedFirst = v.schedNext
	}
	if v.schedNext != nil {
		v.schedNext.schedPrev = v.schedPrev
	} else {
		b.schedLast = v.schedPrev
	}
	v.schedPrev, v.schedNext = nil, nil
	b.invalidateValues()
}

// Append adds v to the end of the block's schedule. Convenience used by
// test-building code (testutil_test.go) and graph construction.
func (s Schedule) Append(v *Value) { s.InsertAfter(s.b.schedLast, v) }
