// Package env defines the two environments the pipeline threads through
// compilation and interpretation. The compile-time environment is a set of
// ordered name lists, one per lookup kind; the indices into those lists are
// stable and are compiled directly into bytecode. The runtime environment
// holds the parallel value lists the VM reads at GET time.
package env

import (
	"github.com/samber/lo"

	"reqexpr/builtins"
	"reqexpr/object"
	"reqexpr/types"
)

// ClientEntry is one client-context binding known at compile time. The
// declared type defaults to Value; a host that registers a callable entry
// declares it with an Fn type so calls through it type-check.
type ClientEntry struct {
	Name string
	Type types.Type
}

// CompileEnv is the compile-time environment: the built-in registry, any
// user built-ins the host registered, and the ordered name lists for
// variables, prompts, secrets and client-context values.
type CompileEnv struct {
	Builtins     []*object.Builtin
	UserBuiltins []*object.Builtin
	Vars         []string
	Prompts      []string
	Secrets      []string
	Client       []ClientEntry
}

// NewCompileEnv creates a compile-time environment over the fixed built-in
// registry with the given name lists.
func NewCompileEnv(vars, prompts, secrets, client []string) *CompileEnv {
	return &CompileEnv{
		Builtins: builtins.Registry,
		Vars:     vars,
		Prompts:  prompts,
		Secrets:  secrets,
		Client: lo.Map(client, func(name string, _ int) ClientEntry {
			return ClientEntry{Name: name, Type: types.Value}
		}),
	}
}

// RegisterUserBuiltin appends a host-supplied built-in and returns its
// index in the user-built-in table.
func (e *CompileEnv) RegisterUserBuiltin(builtin *object.Builtin) int {
	e.UserBuiltins = append(e.UserBuiltins, builtin)
	return len(e.UserBuiltins) - 1
}

// RegisterClient appends (or retypes) a client-context name and returns its
// index. Re-registering an existing name keeps its index stable, which the
// REPL relies on when it rebinds `_` after every evaluation.
func (e *CompileEnv) RegisterClient(name string, declared types.Type) int {
	for i := range e.Client {
		if e.Client[i].Name == name {
			e.Client[i].Type = declared
			return i
		}
	}
	e.Client = append(e.Client, ClientEntry{Name: name, Type: declared})
	return len(e.Client) - 1
}

// LookupBuiltin resolves a name in the built-in table.
func (e *CompileEnv) LookupBuiltin(name string) (int, *object.Builtin, bool) {
	return lookupDescriptor(e.Builtins, name)
}

// LookupUserBuiltin resolves a name in the user-built-in table.
func (e *CompileEnv) LookupUserBuiltin(name string) (int, *object.Builtin, bool) {
	return lookupDescriptor(e.UserBuiltins, name)
}

// LookupVar resolves a variable name to its index.
func (e *CompileEnv) LookupVar(name string) (int, bool) {
	return indexOf(e.Vars, name)
}

// LookupPrompt resolves a prompt name to its index.
func (e *CompileEnv) LookupPrompt(name string) (int, bool) {
	return indexOf(e.Prompts, name)
}

// LookupSecret resolves a secret name to its index.
func (e *CompileEnv) LookupSecret(name string) (int, bool) {
	return indexOf(e.Secrets, name)
}

// LookupClient resolves a client-context name to its index and declared
// type.
func (e *CompileEnv) LookupClient(name string) (int, ClientEntry, bool) {
	for i, entry := range e.Client {
		if entry.Name == name {
			return i, entry, true
		}
	}
	return 0, ClientEntry{}, false
}

func lookupDescriptor(table []*object.Builtin, name string) (int, *object.Builtin, bool) {
	for i, builtin := range table {
		if builtin.Name == name {
			return i, builtin, true
		}
	}
	return 0, nil, false
}

func indexOf(names []string, name string) (int, bool) {
	_, index, found := lo.FindIndexOf(names, func(candidate string) bool {
		return candidate == name
	})
	return index, found
}

// RuntimeEnv is the runtime environment: value lists parallel to the
// compile-time name lists. Variables, prompts and secrets are strings;
// client-context entries are typed values. Built-ins need no value list,
// the VM takes their descriptors straight from the compile-time
// environment.
type RuntimeEnv struct {
	Vars    []string
	Prompts []string
	Secrets []string
	Client  []object.Value
}

// SetClient stores a client-context value at the given index, growing the
// list if the compile-time environment registered names after this runtime
// environment was built.
func (e *RuntimeEnv) SetClient(index int, value object.Value) {
	for len(e.Client) <= index {
		e.Client = append(e.Client, nil)
	}
	e.Client[index] = value
}
