// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// Cache pools scratch slices and sparse sets across passes, grounded on
// the teacher's f.Cache.allocBoolSlice and f.newSparseSet/retSparseSet
// calls in regalloc.go. Reuse avoids reallocating per-ID-indexed scratch
// space on every pass invocation. The teacher also pools int32/[]*Block
// scratch and a payload-carrying sparseMapPos; neither has a caller here
// (dom.go's only scratch need is the []bool visited/seen arrays, and
// sparseMapPos's val/pos payload belongs to register selection, a
// Non-goal — see sparsemap.go), so only the pools an actual pass uses
// are kept.

type Cache struct {
	boolSlices [][]bool

	sparseSetCache []*sparseSet
}

func newCache() *Cache { return &Cache{} }

func (c *Cache) allocBoolSlice(n int) []bool {
	var s []bool
	if len(c.boolSlices) > 0 {
		s = c.boolSlices[len(c.boolSlices)-1]
		c.boolSlices = c.boolSlices[:len(c.boolSlices)-1]
	}
	if cap(s) < n {
		s = make([]bool, n)
	} else {
		s = s[:n]
		for i := range s {
			s[i] = false
		}
	}
	return s
}

func (c *Cache) freeBoolSlice(s []bool) { c.boolSlices = append(c.boolSlices, s) }

func (f *Func) newSparseSet(n int) *sparseSet {
	c := f.Cache
	if len(c.sparseSetCache) > 0 {
		s := c.sparseSetCache[len(c.sparseSetCache)-1]
		c.sparseSetCache = c.sparseSetCache[:len(c.sparseSetCache)-1]
		s.cap(n)
		return s
	}
	return newSparseSet(n)
}

func (f *Func) retSparseSet(s *sparseSet) {
	s.clear()
	f.Cache.sparseSetCache = append(f.Cache.sparseSetCache, s)
}
