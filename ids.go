// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// ID is a globally unique dense identifier, used for values and blocks.
// Dense IDs let callers use plain slices instead of maps for per-value
// and per-block scratch state (see Cache).
type ID int32

// Pos is a lightweight stand-in for the compiler's source position type.
// The real thing (cmd/compile/internal/src.XPos) is compiler-internal and
// unreachable from a standalone module; callers needing real source
// tracking can swap this for a richer type without touching the rest of
// the package, since nothing here does arithmetic on it beyond carrying
// it around for diagnostics.
type Pos struct {
	Line int32
	Col  int32
}

// NoPos is the zero value, meaning "no useful position available".
var NoPos = Pos{}

// idAlloc hands out fresh, monotonically increasing IDs for one Func.
type idAlloc struct {
	next ID
}

func (a *idAlloc) get() ID {
	id := a.next
	a.next++
	return id
}
