package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/subcommands"
	"github.com/samber/lo"

	"reqexpr/compiler"
	"reqexpr/diag"
	"reqexpr/env"
	"reqexpr/lexer"
	"reqexpr/object"
	"reqexpr/parser"
	"reqexpr/types"
	"reqexpr/vm"
)

// lastValueName is the client-context entry the REPL rebinds after every
// successful interpretation, reachable in source as `@_`.
const lastValueName = "_"

// replCmd implements the interactive read-eval-print loop. Lines starting
// with '/' are commands; everything else runs through the pipeline stage
// selected by the current mode.
type replCmd struct {
	bindings bindings
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive REPL session" }
func (*replCmd) Usage() string {
	return `repl [flags]:
  Start an interactive session. Commands:
    /mode [interpret|compile|disassemble|parse|lex]
    /set [var|prompt|secret|client] name = value
    /env
    /exit
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {
	cmd.bindings.register(f)
}

// replSession holds the environments and mode across lines. The compile
// and runtime environments grow together as /set introduces names, so
// indices already compiled into earlier lines stay valid.
type replSession struct {
	compileEnv *env.CompileEnv
	runtimeEnv *env.RuntimeEnv
	mode       string
}

func (cmd *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	compileEnv, runtimeEnv := cmd.bindings.environments()
	session := &replSession{
		compileEnv: compileEnv,
		runtimeEnv: runtimeEnv,
		mode:       "interpret",
	}

	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %s\n", err.Error())
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("Expression REPL. /exit to quit, /mode to switch stages.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %s\n", err.Error())
			return subcommands.ExitFailure
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := session.command(line); quit {
				return subcommands.ExitSuccess
			}
			continue
		}
		session.evaluate(line)
	}
}

// command handles one /-prefixed REPL command and reports whether the
// session should end.
func (session *replSession) command(line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "/exit":
		return true

	case "/mode":
		switch rest {
		case "interpret", "compile", "disassemble", "parse", "lex":
			session.mode = rest
			fmt.Printf("mode: %s\n", session.mode)
		case "":
			fmt.Printf("mode: %s\n", session.mode)
		default:
			fmt.Printf("💥 unknown mode %q; one of interpret|compile|disassemble|parse|lex\n", rest)
		}

	case "/set":
		session.set(rest)

	case "/env":
		session.printEnv()

	default:
		fmt.Printf("💥 unknown command %q\n", name)
	}
	return false
}

// set handles `/set [var|prompt|secret|client] name = value`.
func (session *replSession) set(rest string) {
	kind, rest, _ := strings.Cut(rest, " ")
	name, value, ok := strings.Cut(rest, "=")
	if !ok {
		fmt.Println("💥 usage: /set [var|prompt|secret|client] name = value")
		return
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)

	switch kind {
	case "var":
		session.runtimeEnv.Vars = setBinding(&session.compileEnv.Vars, session.runtimeEnv.Vars, name, value)
	case "prompt":
		session.runtimeEnv.Prompts = setBinding(&session.compileEnv.Prompts, session.runtimeEnv.Prompts, name, value)
	case "secret":
		session.runtimeEnv.Secrets = setBinding(&session.compileEnv.Secrets, session.runtimeEnv.Secrets, name, value)
	case "client":
		index := session.compileEnv.RegisterClient(name, types.Value)
		session.runtimeEnv.SetClient(index, object.String{Value: value})
	default:
		fmt.Printf("💥 unknown binding kind %q; one of var|prompt|secret|client\n", kind)
	}
}

// setBinding updates an existing name's runtime value or appends a new
// name to both environments in lockstep.
func setBinding(names *[]string, values []string, name, value string) []string {
	for i, existing := range *names {
		if existing == name {
			values[i] = value
			return values
		}
	}
	*names = append(*names, name)
	return append(values, value)
}

// printEnv renders the current environments, masking secret values.
func (session *replSession) printEnv() {
	heading := color.New(color.Bold)

	heading.Println("vars")
	for i, name := range session.compileEnv.Vars {
		fmt.Printf("  :%s = %q\n", name, session.runtimeEnv.Vars[i])
	}
	heading.Println("prompts")
	for i, name := range session.compileEnv.Prompts {
		fmt.Printf("  ?%s = %q\n", name, session.runtimeEnv.Prompts[i])
	}
	heading.Println("secrets")
	for i, name := range session.compileEnv.Secrets {
		fmt.Printf("  !%s = %q\n", name, strings.Repeat("*", len(session.runtimeEnv.Secrets[i])))
	}
	heading.Println("client context")
	for i, entry := range session.compileEnv.Client {
		rendered := "<unset>"
		if i < len(session.runtimeEnv.Client) && session.runtimeEnv.Client[i] != nil {
			rendered = session.runtimeEnv.Client[i].String()
		}
		fmt.Printf("  @%s = %s\n", entry.Name, rendered)
	}
	heading.Println("user builtins")
	names := lo.Map(session.compileEnv.UserBuiltins, func(builtin *object.Builtin, _ int) string {
		return builtin.Name
	})
	if len(names) > 0 {
		fmt.Printf("  %s\n", strings.Join(names, ", "))
	}
}

// evaluate runs one input line through the pipeline stage selected by the
// current mode.
func (session *replSession) evaluate(source string) {
	switch session.mode {
	case "lex":
		tokens, errs := lexer.New(source).Scan()
		fmt.Print(renderTokens(tokens))
		if len(errs) > 0 {
			fmt.Println(diag.FormatAll(source, errs))
		}

	case "parse":
		tokens, lexErrors := lexer.New(source).Scan()
		expr, parseErrors := parser.Make(tokens).Parse()
		if errs := append(lexErrors, parseErrors...); len(errs) > 0 {
			fmt.Println(diag.FormatAll(source, errs))
			return
		}
		rendered, err := parser.PrintASTJSON(expr)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(rendered)

	case "compile":
		bytecode, errs := compileSource(source, session.compileEnv)
		if len(errs) > 0 {
			fmt.Println(diag.FormatAll(source, errs))
			return
		}
		fmt.Printf("%x\n", bytecode.Encode())

	case "disassemble":
		bytecode, errs := compileSource(source, session.compileEnv)
		if len(errs) > 0 {
			fmt.Println(diag.FormatAll(source, errs))
			return
		}
		fmt.Print(compiler.Disassemble(bytecode, session.compileEnv))

	case "interpret":
		bytecode, errs := compileSource(source, session.compileEnv)
		if len(errs) > 0 {
			fmt.Println(diag.FormatAll(source, errs))
			return
		}
		result, err := vm.New().Run(bytecode, session.compileEnv, session.runtimeEnv)
		if err != nil {
			fmt.Println(diag.Format(source, err))
			return
		}
		fmt.Println(result)
		session.storeLastValue(result)
	}
}

// storeLastValue rebinds `@_` to the most recent successfully interpreted
// value.
func (session *replSession) storeLastValue(value object.Value) {
	index := session.compileEnv.RegisterClient(lastValueName, value.Type())
	session.runtimeEnv.SetClient(index, value)
}
