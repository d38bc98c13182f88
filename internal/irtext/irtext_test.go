// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package irtext

import (
	"bytes"
	"strings"
	"testing"

	ssa "github.com/kozross/go-firm"
)

const sample = `
config R1 R2 R3

func demo
block entry
v1 = const
v2 = generic reg=R1
goto mid
block mid
v3 v4 = permute v1:R2 v2:R1
v5 = generic v3 v4 constraint=must_differ:0,1
ret
`

func TestParseBuildsExpectedGraph(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Name != "demo" {
		t.Errorf("expected func name demo, got %s", f.Name)
	}
	if len(f.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(f.Blocks))
	}
	entry, mid := f.Blocks[0], f.Blocks[1]
	if len(entry.Succs) != 1 || entry.Succs[0].Block() != mid {
		t.Fatalf("expected entry -> mid, got %v", entry.Succs)
	}

	var permute *ssa.Value
	var tail *ssa.Value
	var projCount int
	for _, v := range mid.Values() {
		switch v.Op {
		case ssa.OpPermute:
			permute = v
		case ssa.OpGeneric:
			tail = v
		case ssa.OpProj:
			projCount++
		}
	}
	if permute == nil {
		t.Fatal("expected a permute node in mid")
	}
	if len(permute.Args) != 2 {
		t.Fatalf("expected permute to take 2 operands, got %d", len(permute.Args))
	}
	if projCount != 2 {
		t.Fatalf("expected 2 projections off the permute, got %d", projCount)
	}

	if tail == nil {
		t.Fatal("expected the trailing generic instruction in mid")
	}
	if tail.Constraint == nil || tail.Constraint.MustDiffer != 0b11 {
		t.Errorf("expected must_differ bits 0 and 1 set, got %+v", tail.Constraint)
	}
}

func TestParseRejectsMisplacedTerminator(t *testing.T) {
	bad := `
config R1

func demo
block entry
goto entry
v1 = const
ret
`
	if _, err := Parse(strings.NewReader(bad)); err == nil {
		t.Fatal("expected an error for a terminator that isn't the block's last statement")
	}
}

func TestParseRejectsUnknownOperand(t *testing.T) {
	bad := `
config R1

func demo
block entry
v1 = generic v2
ret
`
	if _, err := Parse(strings.NewReader(bad)); err == nil {
		t.Fatal("expected an error for an operand that was never defined")
	}
}

func TestPrintMentionsEachBlockAndValue(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buf bytes.Buffer
	Print(&buf, f)
	out := buf.String()
	for _, want := range []string{"func demo", "block b0", "block b1", "reg=R1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
