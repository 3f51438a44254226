package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"reqexpr/compiler"
	"reqexpr/diag"
	"reqexpr/vm"
)

// runCmd evaluates an expression and prints the resulting value. It
// accepts either a source file or a compiled container file.
type runCmd struct {
	bindings bindings
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Evaluate an expression source or bytecode file" }
func (*runCmd) Usage() string {
	return `run [flags] <file.expr | file.exprc>:
  Evaluate an expression and print the resulting value.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	cmd.bindings.register(f)
}

func (cmd *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}

	compileEnv, runtimeEnv := cmd.bindings.environments()

	if strings.HasSuffix(args[0], ".exprc") {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
			return subcommands.ExitFailure
		}
		bytecode, err := compiler.DecodeBytecode(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}
		result, err := vm.New().Run(bytecode, compileEnv, runtimeEnv)
		if err != nil {
			fmt.Fprintln(os.Stderr, diag.Format("", err))
			return subcommands.ExitFailure
		}
		fmt.Println(result)
		return subcommands.ExitSuccess
	}

	source, ok := readSourceArg(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	result, errs := interpretSource(source, compileEnv, runtimeEnv)
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, diag.FormatAll(source, errs))
		return subcommands.ExitFailure
	}
	fmt.Println(result)
	return subcommands.ExitSuccess
}
