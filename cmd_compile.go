package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"reqexpr/diag"
)

// compileCmd compiles a source file and writes the binary bytecode
// container to disk.
type compileCmd struct {
	bindings bindings
	output   string
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile an expression to a bytecode container file" }
func (*compileCmd) Usage() string {
	return `compile [flags] <file.expr>:
  Compile an expression and write the bytecode container to <file.expr>c.
`
}

func (cmd *compileCmd) SetFlags(f *flag.FlagSet) {
	cmd.bindings.register(f)
	f.StringVar(&cmd.output, "o", "", "output path (default: source path + 'c')")
}

func (cmd *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	source, ok := readSourceArg(f)
	if !ok {
		return subcommands.ExitUsageError
	}

	compileEnv, _ := cmd.bindings.environments()
	bytecode, errs := compileSource(source, compileEnv)
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, diag.FormatAll(source, errs))
		return subcommands.ExitFailure
	}

	output := cmd.output
	if output == "" {
		output = f.Args()[0] + "c"
	}
	if err := os.WriteFile(output, bytecode.Encode(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to write bytecode file: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
