package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"reqexpr/ast"
)

// astPrinter implements ast.ExpressionVisitor and builds a JSON-friendly
// representation of the AST using maps and slices. Each Visit method
// returns an object that can be marshaled to JSON.
type astPrinter struct{}

func (p astPrinter) VisitString(str ast.StringLit) any {
	return map[string]any{
		"type":  "String",
		"value": str.Value,
		"span":  str.ExprSpan.String(),
	}
}

func (p astPrinter) VisitBool(boolean ast.BoolLit) any {
	return map[string]any{
		"type":  "Bool",
		"value": boolean.Value,
		"span":  boolean.ExprSpan.String(),
	}
}

func (p astPrinter) VisitIdentifier(identifier ast.Identifier) any {
	node := map[string]any{
		"type": "Identifier",
		"name": identifier.Name,
		"kind": identifier.Kind.String(),
		"span": identifier.ExprSpan.String(),
	}
	if identifier.Type != nil {
		node["denotes"] = identifier.Type.String()
	}
	return node
}

func (p astPrinter) VisitCall(call ast.Call) any {
	args := make([]any, 0, len(call.Args))
	for _, arg := range call.Args {
		args = append(args, arg.Accept(p))
	}
	return map[string]any{
		"type":   "Call",
		"callee": call.Callee.Accept(p),
		"args":   args,
		"span":   call.ExprSpan.String(),
	}
}

func (p astPrinter) VisitError(bad ast.ErrorExpr) any {
	return map[string]any{
		"type": "Error",
		"span": bad.ExprSpan.String(),
	}
}

// PrintASTJSON renders the AST as prettified JSON and returns it.
func PrintASTJSON(expr ast.Expression) (string, error) {
	tree := expr.Accept(astPrinter{})
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error producing AST JSON: %w", err)
	}
	return string(data), nil
}

// WriteASTJSONToFile writes the AST for the provided expression to a .json
// file at the given path.
func WriteASTJSONToFile(expr ast.Expression, path string) error {
	rendered, err := PrintASTJSON(expr)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(rendered), 0o644)
}

// Print prints the AST as prettified JSON to standard output.
func (parser *Parser) Print(expr ast.Expression) {
	rendered, err := PrintASTJSON(expr)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(rendered)
}
