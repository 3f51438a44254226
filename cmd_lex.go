package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"reqexpr/diag"
	"reqexpr/lexer"
)

// lexCmd tokenizes a source file and prints the token stream.
type lexCmd struct {
	bindings bindings
}

func (*lexCmd) Name() string     { return "lex" }
func (*lexCmd) Synopsis() string { return "Tokenize an expression source file" }
func (*lexCmd) Usage() string {
	return `lex [flags] <file.expr>:
  Tokenize an expression and print one token per line.
`
}

func (cmd *lexCmd) SetFlags(f *flag.FlagSet) {
	cmd.bindings.register(f)
}

func (cmd *lexCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	source, ok := readSourceArg(f)
	if !ok {
		return subcommands.ExitUsageError
	}

	tokens, errs := lexer.New(source).Scan()
	fmt.Print(renderTokens(tokens))
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, diag.FormatAll(source, errs))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// readSourceArg reads the positional source file every pipeline command
// takes.
func readSourceArg(f *flag.FlagSet) (string, bool) {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return "", false
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return "", false
	}
	return string(data), true
}
