package filter

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"kls/internal/core/apperror"
)

// OrderVars are the variables an order expression can reference.
var OrderVars = []cel.EnvOption{
	cel.Variable("supplier", cel.StringType),
	cel.Variable("number", cel.StringType),
	cel.Variable("status", cel.StringType),
	cel.Variable("total", cel.DoubleType),
	cel.Variable("paid", cel.DoubleType),
	cel.Variable("remaining", cel.DoubleType),
	cel.Variable("items", cel.ListType(cel.StringType)),
	cel.Variable("age_days", cel.IntType),
}

// Expr is a compiled boolean CEL expression, e.g.
//
//	remaining > 5000.0 && status != "paid"
//	items.exists(i, i.startsWith("Wheat"))
type Expr struct {
	source  string
	program cel.Program
}

// Compile parses and type-checks src against vars. The result must be bool.
func Compile(src string, vars ...cel.EnvOption) (*Expr, error) {
	env, err := cel.NewEnv(vars...)
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, iss := env.Compile(src)
	if iss != nil && iss.Err() != nil {
		return nil, invalidExpr(src, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, invalidExpr(src, fmt.Errorf("expression must be boolean, got %s", ast.OutputType()))
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, invalidExpr(src, err)
	}
	return &Expr{source: src, program: prg}, nil
}

// Match evaluates the expression. Evaluation errors (missing keys, bad
// arithmetic) count as no match.
func (e *Expr) Match(vars map[string]any) bool {
	out, _, err := e.program.Eval(vars)
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// String returns the source text.
func (e *Expr) String() string {
	return e.source
}

func invalidExpr(src string, err error) error {
	return apperror.NewValidation("invalid filter expression").
		WithDetail("field", "expr").
		WithDetail("expr", src).
		WithDetail("reason", err.Error()).
		WithCause(err)
}
