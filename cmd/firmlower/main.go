// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command firmlower is a small CLI around the post-register-allocation
// lowering core: it reads a textual IR file (internal/irtext), runs one
// of the package's three external entry points against it, and prints
// the resulting schedule. The CLI analog of oisee-z80-optimizer's
// z80opt enumerate/target/verify subcommands.
package main

import (
	"fmt"
	"os"

	ssa "github.com/kozross/go-firm"
	"github.com/kozross/go-firm/internal/irtext"
	"github.com/spf13/cobra"
)

func main() {
	var debug int
	var stats int

	rootCmd := &cobra.Command{
		Use:   "firmlower",
		Short: "post-register-allocation permutation lowering core",
	}
	rootCmd.PersistentFlags().IntVar(&debug, "debug", 0, "loop-nest diagnostic verbosity (mirrors -d=ssa/...,debug=N)")
	rootCmd.PersistentFlags().IntVar(&stats, "stats", 0, "loop-nest stats verbosity")

	loadFunc := func(path string) (*ssa.Func, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		fn, err := irtext.Parse(f)
		if err != nil {
			return nil, err
		}
		fn.SetDebug(debug)
		fn.SetStats(stats)
		return fn, nil
	}

	lowerCmd := &cobra.Command{
		Use:   "lower FILE",
		Short: "run Push-Through, the Pair Builder, Cycle Decomposer, and Move Emitter over every permutation node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := loadFunc(args[0])
			if err != nil {
				return err
			}
			if err := ssa.LowerNodesAfterRA(fn); err != nil {
				return fmt.Errorf("lowering failed: %w", err)
			}
			irtext.Print(cmd.OutOrStdout(), fn)
			return nil
		},
	}

	constrainCmd := &cobra.Command{
		Use:   "constrain FILE",
		Short: "run the Constraint Assurer over every block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := loadFunc(args[0])
			if err != nil {
				return err
			}
			if err := ssa.AssureConstraints(fn); err != nil {
				return fmt.Errorf("constraint assurance failed: %w", err)
			}
			irtext.Print(cmd.OutOrStdout(), fn)
			return nil
		},
	}

	pushThroughCmd := &cobra.Command{
		Use:   "pushthrough FILE",
		Short: "run Perm Push-Through on every permutation node, reporting whether each survived",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := loadFunc(args[0])
			if err != nil {
				return err
			}
			var perms []*ssa.Value
			for _, b := range fn.Blocks {
				for _, v := range b.Values() {
					if v.Op == ssa.OpPermute {
						perms = append(perms, v)
					}
				}
			}
			for _, p := range perms {
				name := p.String()
				stillNeedsLowering, err := ssa.PushThroughPerm(p)
				if err != nil {
					return fmt.Errorf("push-through failed on %s: %w", name, err)
				}
				if stillNeedsLowering {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: survives, still needs lowering\n", name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: eliminated\n", name)
				}
			}
			irtext.Print(cmd.OutOrStdout(), fn)
			return nil
		},
	}

	rootCmd.AddCommand(lowerCmd, constrainCmd, pushThroughCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
