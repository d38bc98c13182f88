// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

// RegPair is the Pair Builder's working record (spec.md §3, §4.1): one
// source/destination register transfer extracted from a permutation
// node. It lives only for the duration of lowering one permutation.
type RegPair struct {
	InReg   *Register
	InValue *Value
	OutReg  *Register
	OutVal  *Value
	checked bool
}
