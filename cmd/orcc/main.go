// Command orcc drives the compilation core against the in-tree
// scalarc reference backend. Real source/program-construction
// front ends are out-of-scope collaborators (spec §1); this CLI only
// demonstrates the pipeline against a small built-in demo program.
package main

import (
	"fmt"
	"os"

	"github.com/GriffinCanCode/orc-go/backend/scalarc"
	"github.com/GriffinCanCode/orc-go/pkg/logger"
	"github.com/GriffinCanCode/orc-go/pkg/orc"
	"github.com/GriffinCanCode/orc-go/pkg/orcir"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "orcc",
		Short: "orcc drives the compilation core against a reference backend",
	}
	root.AddCommand(newDemoCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the orcc version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func newDemoCmd() *cobra.Command {
	var target string
	var flagsCfg string
	var interpreted bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Compile a small built-in demo program and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.InitDev()

			if target != "scalarc" {
				return fmt.Errorf("unknown target %q (only \"scalarc\" is built in)", target)
			}

			t := scalarc.New()
			if interpreted {
				t = scalarc.NewInterpreted()
			}

			prog := demoProgram()

			logger.LogCompilerStart(t.Name())
			result, err := orc.CompileFull(prog, t, flagsCfg)
			if err != nil {
				logger.LogError("compilation failed", err)
				return err
			}
			logger.LogCompilerComplete(result.String(), prog.CodeSize)

			fmt.Fprintf(cmd.OutOrStdout(), "result: %s\ncode size: %d bytes\n\n%s", result, prog.CodeSize, prog.AsmCode)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "scalarc", "backend target to compile against")
	cmd.Flags().StringVar(&flagsCfg, "flags", "", "comma-separated compiler flags (backup,debug)")
	cmd.Flags().BoolVar(&interpreted, "interpreted", true, "allocate non-executable code memory")
	return cmd
}

// demoProgram builds a tiny vectorized add-then-copy program: dest =
// src1 + src2, then out = dest. It exercises src->dest chaining on the
// copyl step.
func demoProgram() *orcir.Program {
	vars := []*orcir.Variable{
		{Name: "s1", Size: 4, Kind: orcir.KindSrc},
		{Name: "s2", Size: 4, Kind: orcir.KindSrc},
		{Name: "t1", Size: 4, Kind: orcir.KindTemp},
		{Name: "d1", Size: 4, Kind: orcir.KindDest},
	}

	addOp, _ := orcir.LookupOpcode("addl")
	copyOp, _ := orcir.LookupOpcode("copyl")

	add := orcir.NewInstruction(addOp)
	add.Dest[0] = 2
	add.Src[0] = 0
	add.Src[1] = 1

	cp := orcir.NewInstruction(copyOp)
	cp.Dest[0] = 3
	cp.Src[0] = 2

	return &orcir.Program{
		Vars:  vars,
		Insns: []*orcir.Instruction{add, cp},
	}
}
