package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"reqexpr/diag"
	"reqexpr/lexer"
	"reqexpr/parser"
)

// parseCmd parses a source file and prints the AST as JSON.
type parseCmd struct {
	bindings bindings
	output   string
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "Parse an expression source file and print its AST" }
func (*parseCmd) Usage() string {
	return `parse [flags] <file.expr>:
  Parse an expression and print the AST as JSON.
`
}

func (cmd *parseCmd) SetFlags(f *flag.FlagSet) {
	cmd.bindings.register(f)
	f.StringVar(&cmd.output, "o", "", "write the AST JSON to a file instead of stdout")
}

func (cmd *parseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	source, ok := readSourceArg(f)
	if !ok {
		return subcommands.ExitUsageError
	}

	tokens, lexErrors := lexer.New(source).Scan()
	expr, parseErrors := parser.Make(tokens).Parse()

	errs := append(lexErrors, parseErrors...)
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, diag.FormatAll(source, errs))
		return subcommands.ExitFailure
	}

	if cmd.output != "" {
		if err := parser.WriteASTJSONToFile(expr, cmd.output); err != nil {
			fmt.Fprintf(os.Stderr, "💥 Dump AST error: %s\n", err.Error())
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	rendered, err := parser.PrintASTJSON(expr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(rendered)
	return subcommands.ExitSuccess
}
