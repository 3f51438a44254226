package main

import (
	"flag"
	"strings"

	"github.com/samber/lo"

	"reqexpr/env"
	"reqexpr/object"
)

// repeatedFlag collects every occurrence of a repeatable flag.
type repeatedFlag []string

func (f *repeatedFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *repeatedFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

// bindings holds the NAME[=VALUE] pairs supplied on the command line for
// each lookup kind. A pair without a value binds the name to the empty
// string.
type bindings struct {
	vars    repeatedFlag
	prompts repeatedFlag
	secrets repeatedFlag
	client  repeatedFlag
}

// register wires the four repeatable binding flags into a FlagSet.
func (b *bindings) register(f *flag.FlagSet) {
	f.Var(&b.vars, "vars", "variable binding NAME[=VALUE], repeatable")
	f.Var(&b.prompts, "prompts", "prompt binding NAME[=VALUE], repeatable")
	f.Var(&b.secrets, "secrets", "secret binding NAME[=VALUE], repeatable")
	f.Var(&b.client, "client-context", "client context binding NAME[=VALUE], repeatable")
}

// environments builds the compile-time and runtime environments from the
// collected bindings. Names keep their command-line order, so the indices
// compiled into bytecode line up with the runtime value lists.
func (b *bindings) environments() (*env.CompileEnv, *env.RuntimeEnv) {
	varNames, varValues := splitBindings(b.vars)
	promptNames, promptValues := splitBindings(b.prompts)
	secretNames, secretValues := splitBindings(b.secrets)
	clientNames, clientValues := splitBindings(b.client)

	compileEnv := env.NewCompileEnv(varNames, promptNames, secretNames, clientNames)
	runtimeEnv := &env.RuntimeEnv{
		Vars:    varValues,
		Prompts: promptValues,
		Secrets: secretValues,
		Client: lo.Map(clientValues, func(value string, _ int) object.Value {
			return object.String{Value: value}
		}),
	}
	return compileEnv, runtimeEnv
}

func splitBindings(pairs []string) ([]string, []string) {
	names := make([]string, 0, len(pairs))
	values := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		name, value, _ := strings.Cut(pair, "=")
		names = append(names, name)
		values = append(values, value)
	}
	return names, values
}
