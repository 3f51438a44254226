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
)

// disassembleCmd renders bytecode as human-readable text. It accepts
// either a source file, which it compiles first, or a compiled container
// file.
type disassembleCmd struct {
	bindings bindings
}

func (*disassembleCmd) Name() string     { return "disassemble" }
func (*disassembleCmd) Synopsis() string { return "Disassemble an expression or a bytecode container" }
func (*disassembleCmd) Usage() string {
	return `disassemble [flags] <file.expr | file.exprc>:
  Print a human-readable listing of the compiled bytecode.
`
}

func (cmd *disassembleCmd) SetFlags(f *flag.FlagSet) {
	cmd.bindings.register(f)
}

func (cmd *disassembleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}

	compileEnv, _ := cmd.bindings.environments()

	var bytecode *compiler.Bytecode
	if strings.HasSuffix(args[0], ".exprc") {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
			return subcommands.ExitFailure
		}
		bytecode, err = compiler.DecodeBytecode(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		source, ok := readSourceArg(f)
		if !ok {
			return subcommands.ExitUsageError
		}
		var errs []error
		bytecode, errs = compileSource(source, compileEnv)
		if len(errs) > 0 {
			fmt.Fprintln(os.Stderr, diag.FormatAll(source, errs))
			return subcommands.ExitFailure
		}
	}

	fmt.Print(compiler.Disassemble(bytecode, compileEnv))
	return subcommands.ExitSuccess
}
