// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package irtext implements a small textual IR the firmlower CLI reads
// and prints (spec.md §1's external driver — out of scope for the
// package proper — has to come from somewhere when the entry points are
// driven from the command line instead of from a real compiler build).
//
// A file looks like:
//
//	config R1 R2 R3
//
//	func demo
//	block entry
//	v1 = const
//	v2 = generic reg=R1
//	goto mid
//	block mid
//	v3 v4 = permute v1:R2 v2:R1
//	v5 = generic v3 v4 constraint=must_differ:0,1
//	ret
//
// One register class, named by the config line's register list. Value
// definitions take the form `dst... = op args... annotations...`; `op`
// is one of const, generic, or permute. For permute, dst is the
// projection name for each operand in order and each arg has the shape
// `operand:destreg`. Annotations are `key=value` tokens: `reg=NAME` sets
// the defined value's register, `constraint=must_differ:i,j` or
// `constraint=should_be_same:i,j` add to its OutputConstraint (bit i set
// per listed operand index; both may appear space-separated as two
// annotation tokens). A block ends with exactly one terminator: `goto
// BLOCK`, `if VALUE goto BLOCK1 else BLOCK2`, or `ret`.
//
// There is no Phi support: this format exists to hand-assemble small
// permutation/constraint scenarios for the CLI subcommands, not to
// round-trip a full SSA graph.
package irtext

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	ssa "github.com/kozross/go-firm"
)

// Parse reads a textual IR program from r and builds the Func it
// describes.
func Parse(r io.Reader) (*ssa.Func, error) {
	blocks, err := scan(r)
	if err != nil {
		return nil, err
	}
	return build(blocks)
}

// rawBlock is one block's unprocessed statement lines, captured during
// the first scanning pass so forward references (a goto naming a block
// declared later in the file) can be resolved in a second pass.
type rawBlock struct {
	name  string
	lines []string
}

type program struct {
	regNames []string
	funcName string
	blocks   []rawBlock
}

// scan splits the input into a config line, a func name, and an ordered
// list of named blocks with their raw statement lines.
func scan(r io.Reader) (*program, error) {
	p := &program{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var cur *rawBlock
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "config":
			if p.regNames != nil {
				return nil, fmt.Errorf("line %d: duplicate config line", lineNo)
			}
			p.regNames = fields[1:]
		case "func":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: func expects exactly one name", lineNo)
			}
			p.funcName = fields[1]
		case "block":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: block expects exactly one name", lineNo)
			}
			p.blocks = append(p.blocks, rawBlock{name: fields[1]})
			cur = &p.blocks[len(p.blocks)-1]
		default:
			if cur == nil {
				return nil, fmt.Errorf("line %d: statement outside any block", lineNo)
			}
			cur.lines = append(cur.lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if p.regNames == nil {
		return nil, fmt.Errorf("missing config line")
	}
	if p.funcName == "" {
		return nil, fmt.Errorf("missing func line")
	}
	return p, nil
}

// build constructs the Func named by p, creating all blocks up front
// (so forward-referencing terminators resolve) then filling in each
// block's values and terminator in turn.
func build(p *program) (*ssa.Func, error) {
	cfg := ssa.NewConfig(map[ssa.RegClassID][]string{0: p.regNames})
	regs := map[string]*ssa.Register{}
	for _, rc := range cfg.Classes {
		for _, r := range rc.Registers {
			regs[r.Name] = r
		}
	}

	f := ssa.NewFunc(p.funcName, cfg)
	blocks := make(map[string]*ssa.Block, len(p.blocks))
	order := make([]*ssa.Block, len(p.blocks))
	for i, rb := range p.blocks {
		b := f.NewBlock()
		blocks[rb.name] = b
		order[i] = b
	}
	if len(order) > 0 {
		f.Entry = order[0]
	}

	values := map[string]*ssa.Value{}
	for i, rb := range p.blocks {
		b := order[i]
		if err := fillBlock(f, b, rb, blocks, regs, values); err != nil {
			return nil, fmt.Errorf("block %s: %w", rb.name, err)
		}
	}
	return f, nil
}

func fillBlock(f *ssa.Func, b *ssa.Block, rb rawBlock, blocks map[string]*ssa.Block, regs map[string]*ssa.Register, values map[string]*ssa.Value) error {
	for i, line := range rb.lines {
		last := i == len(rb.lines)-1
		fields := strings.Fields(line)
		switch fields[0] {
		case "goto", "if", "ret":
			if !last {
				return fmt.Errorf("terminator %q must be the block's final statement", fields[0])
			}
			return parseTerminator(f, b, fields, blocks, values)
		default:
			if err := parseValueDef(f, b, fields, regs, values); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("block has no terminator")
}

func parseTerminator(f *ssa.Func, b *ssa.Block, fields []string, blocks map[string]*ssa.Block, values map[string]*ssa.Value) error {
	switch fields[0] {
	case "ret":
		return nil
	case "goto":
		if len(fields) != 2 {
			return fmt.Errorf("goto expects exactly one block name")
		}
		succ, ok := blocks[fields[1]]
		if !ok {
			return fmt.Errorf("goto: unknown block %q", fields[1])
		}
		f.AddEdge(b, succ)
		return nil
	case "if":
		// if VALUE goto BLOCK1 else BLOCK2
		if len(fields) != 6 || fields[2] != "goto" || fields[4] != "else" {
			return fmt.Errorf(`if terminator must read "if VALUE goto BLOCK1 else BLOCK2"`)
		}
		cond, ok := values[fields[1]]
		if !ok {
			return fmt.Errorf("if: unknown value %q", fields[1])
		}
		then, ok := blocks[fields[3]]
		if !ok {
			return fmt.Errorf("if: unknown block %q", fields[3])
		}
		els, ok := blocks[fields[5]]
		if !ok {
			return fmt.Errorf("if: unknown block %q", fields[5])
		}
		b.Control = append(b.Control, cond)
		f.AddEdge(b, then)
		f.AddEdge(b, els)
		return nil
	}
	return fmt.Errorf("unreachable terminator %q", fields[0])
}

func parseValueDef(f *ssa.Func, b *ssa.Block, fields []string, regs map[string]*ssa.Register, values map[string]*ssa.Value) error {
	eq := -1
	for i, t := range fields {
		if t == "=" {
			eq = i
			break
		}
	}
	if eq <= 0 || eq+1 >= len(fields) {
		return fmt.Errorf("expected a value definition, got %q", strings.Join(fields, " "))
	}
	dsts := fields[:eq]
	opName := fields[eq+1]
	rest := fields[eq+2:]

	switch opName {
	case "const":
		if len(dsts) != 1 {
			return fmt.Errorf("const defines exactly one value")
		}
		v := f.NewValue(b, ssa.OpConst, ssa.ModeData)
		if err := applyAnnotations(v, rest, regs); err != nil {
			return err
		}
		values[dsts[0]] = v
		return nil

	case "generic":
		if len(dsts) != 1 {
			return fmt.Errorf("generic defines exactly one value")
		}
		var args []*ssa.Value
		var annotations []string
		for _, tok := range rest {
			if strings.Contains(tok, "=") {
				annotations = append(annotations, tok)
				continue
			}
			a, ok := values[tok]
			if !ok {
				return fmt.Errorf("generic: unknown operand %q", tok)
			}
			args = append(args, a)
		}
		v := f.NewValue(b, ssa.OpGeneric, ssa.ModeData, args...)
		if err := applyAnnotations(v, annotations, regs); err != nil {
			return err
		}
		values[dsts[0]] = v
		return nil

	case "permute":
		if len(dsts) != len(rest) {
			return fmt.Errorf("permute needs one destination per operand (%d dests, %d operands)", len(dsts), len(rest))
		}
		args := make([]*ssa.Value, len(rest))
		destRegs := make([]*ssa.Register, len(rest))
		for i, tok := range rest {
			parts := strings.SplitN(tok, ":", 2)
			if len(parts) != 2 {
				return fmt.Errorf("permute operand %q must read NAME:REG", tok)
			}
			a, ok := values[parts[0]]
			if !ok {
				return fmt.Errorf("permute: unknown operand %q", parts[0])
			}
			r, ok := regs[parts[1]]
			if !ok {
				return fmt.Errorf("permute: unknown register %q", parts[1])
			}
			args[i] = a
			destRegs[i] = r
		}
		p := f.NewValue(b, ssa.OpPermute, ssa.ModeTuple, args...)
		for i, r := range destRegs {
			q := f.NewValue(b, ssa.OpProj, ssa.ModeData, p)
			q.AuxInt = int64(i)
			q.Reg = r
			values[dsts[i]] = q
		}
		return nil
	}
	return fmt.Errorf("unknown op %q", opName)
}

// applyAnnotations parses reg=/constraint=must_differ:.../
// constraint=should_be_same:... tokens onto v.
func applyAnnotations(v *ssa.Value, tokens []string, regs map[string]*ssa.Register) error {
	for _, tok := range tokens {
		kv := strings.SplitN(tok, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("malformed annotation %q", tok)
		}
		key, val := kv[0], kv[1]
		switch key {
		case "reg":
			r, ok := regs[val]
			if !ok {
				return fmt.Errorf("unknown register %q", val)
			}
			v.Reg = r
		case "constraint":
			kindBits := strings.SplitN(val, ":", 2)
			if len(kindBits) != 2 {
				return fmt.Errorf("malformed constraint %q, expected kind:indices", val)
			}
			mask, err := parseBitList(kindBits[1])
			if err != nil {
				return fmt.Errorf("constraint %q: %w", val, err)
			}
			if v.Constraint == nil {
				v.Constraint = &ssa.OutputConstraint{}
			}
			switch kindBits[0] {
			case "must_differ":
				v.Constraint.MustDiffer |= mask
			case "should_be_same":
				v.Constraint.ShouldBeSame |= mask
			default:
				return fmt.Errorf("unknown constraint kind %q", kindBits[0])
			}
		default:
			return fmt.Errorf("unknown annotation %q", key)
		}
	}
	return nil
}

func parseBitList(s string) (uint32, error) {
	var mask uint32
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("invalid operand index %q: %w", part, err)
		}
		mask |= 1 << uint(n)
	}
	return mask, nil
}

// Print writes a readable dump of f's current schedule, block by block,
// in the shape the firmlower CLI shows after running a pass. It is not
// meant to round-trip back through Parse.
func Print(w io.Writer, f *ssa.Func) {
	fmt.Fprintf(w, "func %s\n", f.Name)
	blockNames := make([]string, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		blockNames = append(blockNames, b.String())
	}
	sort.Strings(blockNames)
	byName := map[string]*ssa.Block{}
	for _, b := range f.Blocks {
		byName[b.String()] = b
	}
	for _, name := range blockNames {
		b := byName[name]
		fmt.Fprintf(w, "block %s\n", b)
		for _, v := range b.Values() {
			fmt.Fprintf(w, "  %s", v)
			if len(v.Args) > 0 {
				fmt.Fprint(w, " <-")
				for _, a := range v.Args {
					fmt.Fprintf(w, " %s", a)
				}
			}
			if v.Reg != nil {
				fmt.Fprintf(w, " reg=%s", v.Reg)
			}
			if v.Constraint != nil {
				fmt.Fprintf(w, " constraint={must_differ=%b should_be_same=%b}", v.Constraint.MustDiffer, v.Constraint.ShouldBeSame)
			}
			fmt.Fprintln(w)
		}
	}
}
