// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssa

import "fmt"

// Op names one IR operator. Only the handful the lowering core actually
// needs to recognize are enumerated; a real backend would carry a much
// larger target-specific table (out of scope, spec.md §1).
type Op int32

const (
	OpInvalid Op = iota
	OpPhi
	OpConst   // arbitrary leaf value, carries no operands
	OpGeneric // stand-in for "some normal instruction", used by tests
	OpPermute // multi-output permutation node, spec.md §3
	OpExchange
	OpProj       // single-output selector on a tuple-mode parent
	OpCopy       // plain register-to-register copy
	OpCopyUnspillable
	OpKeep     // zero-semantics edge, Keep(referent, kept)
	OpCopyKeep // zero-semantics edge with a dedicated unspillable copy
)

func (op Op) String() string {
	switch op {
	case OpPhi:
		return "Phi"
	case OpConst:
		return "Const"
	case OpGeneric:
		return "Generic"
	case OpPermute:
		return "Permute"
	case OpExchange:
		return "Exchange"
	case OpProj:
		return "Proj"
	case OpCopy:
		return "Copy"
	case OpCopyUnspillable:
		return "CopyUnspillable"
	case OpKeep:
		return "Keep"
	case OpCopyKeep:
		return "CopyKeep"
	default:
		return "Invalid"
	}
}

// Mode classifies what kind of result a Value produces.
type Mode int8

const (
	ModeData Mode = iota
	ModeControl
	ModeTuple // multi-output; individual results surface through Proj
)

// OutputConstraint is the per-instruction "must differ / should be same"
// annotation the Constraint Assurer (spec.md §4.6) consumes. Bit i of
// MustDiffer/ShouldBeSame refers to operand position i.
type OutputConstraint struct {
	MustDiffer   uint32
	ShouldBeSame uint32
}

// Value is one node in the IR graph (spec.md §3).
type Value struct {
	ID    ID
	Op    Op
	Mode  Mode
	Args  []*Value
	Block *Block
	Pos   Pos

	// AuxInt carries small integer payloads: the selected slot for a
	// Proj, a constant's value for OpConst, nothing for most others.
	AuxInt int64

	Reg *Register // assigned physical register; nil before RA or for tuple parents

	Constraint *OutputConstraint

	// ClobbersFlags marks instructions that modify processor flags,
	// disqualifying them from Perm Push-Through (spec.md §4.5).
	ClobbersFlags bool

	users []*Value // values that use this one as an operand, for O(1)-ish replace

	// unspillable marks copies the allocator must not rematerialize by
	// reload; set only on copies created by the Constraint Assurer.
	unspillable bool

	// schedule linkage, see schedule.go
	schedPrev, schedNext *Value
}

func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("v%d(%s)", v.ID, v.Op)
}

// reg returns the register a value occupies: its own if it has one, or
// (for a Proj) the register the projection itself carries. Tuple-mode
// parents have no register of their own (spec.md §3).
func (v *Value) reg() *Register { return v.Reg }

// isProjOf reports whether v is a Proj selecting slot idx of parent.
func (v *Value) isProjOf(parent *Value, idx int) bool {
	return v.Op == OpProj && len(v.Args) == 1 && v.Args[0] == parent && int(v.AuxInt) == idx
}

// projections returns, in slot order, the Proj values reading from a
// tuple-mode parent. Slots with no live projection are nil; callers must
// tolerate that (spec.md §4.5 can leave "holes" after shrinking a perm).
func (v *Value) projections() []*Value {
	out := make([]*Value, len(v.Args))
	for _, u := range v.users {
		if u.Op != OpProj {
			continue
		}
		i := int(u.AuxInt)
		if i >= 0 && i < len(out) {
			out[i] = u
		}
	}
	return out
}

// addUser / removeUser maintain the users back-edge list that setArg keeps
// coherent, mirroring the compiler's bidirectional-edge discipline
// (DESIGN.md, "Cyclic edge structures in IR").
func (v *Value) addUser(u *Value) {
	v.users = append(v.users, u)
}

func (v *Value) removeUser(u *Value) {
	for i, x := range v.users {
		if x == u {
			v.users = append(v.users[:i], v.users[i+1:]...)
			return
		}
	}
}

// Users returns a copy of the current user list; callers must not hold it
// across graph mutation (replaceUses may reorder/replace it underneath).
func (v *Value) Users() []*Value {
	out := make([]*Value, len(v.users))
	copy(out, v.users)
	return out
}

// setArg sets operand pos of v to target, maintaining target's users list
// and the old operand's users list. This is the single mutator for
// operand edges, matching DESIGN.md's "all edge mutation goes through
// set_input".
func (v *Value) setArg(pos int, target *Value) {
	old := v.Args[pos]
	if old == target {
		return
	}
	if old != nil {
		old.removeUser(v)
	}
	v.Args[pos] = target
	if target != nil {
		target.addUser(v)
	}
}

// replaceUses redirects every current user of v to use repl instead,
// leaving v with no users. Used by no-op elision (spec.md §4.1) and by
// Push-Through (spec.md §4.5).
func (v *Value) replaceUses(repl *Value) {
	users := v.users
	v.users = nil
	for _, u := range users {
		for i, a := range u.Args {
			if a == v {
				u.Args[i] = repl
				repl.addUser(u)
			}
		}
	}
}
