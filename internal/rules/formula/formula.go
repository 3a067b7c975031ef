// Package formula 求值卡牌效果里的算术公式。
//
// 支持：数字字面量、+ - * /、括号、一元正负号、
// caster.X / target.X 属性引用、效果参数里的命名常量、
// floor/ceil/round/abs/min/max/clamp 函数。其余任何语法都视为故障。
package formula

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"Skirmish/internal/rules/domain"
	"Skirmish/modules/kit/logx"
)

const (
	maxExprLen = 512
	maxDepth   = 48
)

// Vars 是公式变量表，键形如 "caster.STR"、"target.HP" 或 "power"。
type Vars map[string]float64

var (
	errDivByZero = errors.New("division by zero")
	errTooDeep   = errors.New("expression nested too deep")
)

// Eval 纯函数求值，出错返回具体原因。
func Eval(expr string, vars Vars) (float64, error) {
	src := strings.TrimSpace(expr)
	if src == "" {
		return 0, errors.New("empty expression")
	}
	if len(src) > maxExprLen {
		return 0, fmt.Errorf("expression longer than %d bytes", maxExprLen)
	}
	node, err := parser.ParseExpr(src)
	if err != nil {
		return 0, fmt.Errorf("parse: %w", err)
	}
	v, err := eval(node, vars, 0)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite result %v", v)
	}
	return v, nil
}

func eval(n ast.Expr, vars Vars, depth int) (float64, error) {
	if depth > maxDepth {
		return 0, errTooDeep
	}
	switch e := n.(type) {
	case *ast.BasicLit:
		if e.Kind != token.INT && e.Kind != token.FLOAT {
			return 0, fmt.Errorf("unsupported literal %s", e.Value)
		}
		return strconv.ParseFloat(e.Value, 64)
	case *ast.ParenExpr:
		return eval(e.X, vars, depth+1)
	case *ast.Ident:
		v, ok := vars[e.Name]
		if !ok {
			return 0, fmt.Errorf("unknown variable %q", e.Name)
		}
		return v, nil
	case *ast.SelectorExpr:
		owner, ok := e.X.(*ast.Ident)
		if !ok {
			return 0, errors.New("nested selector")
		}
		key := owner.Name + "." + strings.ToUpper(e.Sel.Name)
		v, ok := vars[key]
		if !ok {
			return 0, fmt.Errorf("unknown variable %q", key)
		}
		return v, nil
	case *ast.UnaryExpr:
		x, err := eval(e.X, vars, depth+1)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case token.ADD:
			return x, nil
		case token.SUB:
			return -x, nil
		}
		return 0, fmt.Errorf("unsupported unary operator %s", e.Op)
	case *ast.BinaryExpr:
		return evalBinary(e, vars, depth)
	case *ast.CallExpr:
		return evalCall(e, vars, depth)
	}
	return 0, fmt.Errorf("unsupported expression %T", n)
}

func evalBinary(e *ast.BinaryExpr, vars Vars, depth int) (float64, error) {
	x, err := eval(e.X, vars, depth+1)
	if err != nil {
		return 0, err
	}
	y, err := eval(e.Y, vars, depth+1)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case token.ADD:
		return x + y, nil
	case token.SUB:
		return x - y, nil
	case token.MUL:
		return x * y, nil
	case token.QUO:
		if y == 0 {
			return 0, errDivByZero
		}
		return x / y, nil
	}
	return 0, fmt.Errorf("unsupported operator %s", e.Op)
}

func evalCall(e *ast.CallExpr, vars Vars, depth int) (float64, error) {
	fn, ok := e.Fun.(*ast.Ident)
	if !ok {
		return 0, errors.New("unsupported call target")
	}
	if e.Ellipsis.IsValid() {
		return 0, errors.New("variadic call")
	}
	args := make([]float64, len(e.Args))
	for i, a := range e.Args {
		v, err := eval(a, vars, depth+1)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s expects %d args, got %d", fn.Name, n, len(args))
		}
		return nil
	}
	switch fn.Name {
	case "floor", "ceil", "round", "abs":
		if err := arity(1); err != nil {
			return 0, err
		}
		switch fn.Name {
		case "floor":
			return math.Floor(args[0]), nil
		case "ceil":
			return math.Ceil(args[0]), nil
		case "round":
			return math.Round(args[0]), nil
		}
		return math.Abs(args[0]), nil
	case "min", "max":
		if len(args) < 2 {
			return 0, fmt.Errorf("%s expects at least 2 args", fn.Name)
		}
		out := args[0]
		for _, v := range args[1:] {
			if fn.Name == "min" {
				out = math.Min(out, v)
			} else {
				out = math.Max(out, v)
			}
		}
		return out, nil
	case "clamp":
		if err := arity(3); err != nil {
			return 0, err
		}
		return math.Max(args[1], math.Min(args[2], args[0])), nil
	}
	return 0, fmt.Errorf("unknown function %q", fn.Name)
}

// Evaluator 是带日志的求值入口：任何故障都返回 0，并记一条系统错误日志。
type Evaluator struct {
	log logx.Logger
}

func NewEvaluator(log logx.Logger) *Evaluator {
	return &Evaluator{log: logx.OrNop(log)}
}

func (ev *Evaluator) Evaluate(ctx context.Context, expr string, vars Vars) float64 {
	v, err := Eval(expr, vars)
	if err != nil {
		fault := domain.ErrFormulaFault.WithData("expr", expr).WithCause(err)
		logx.ReportSysErrorWithLoggerContext(ctx, ev.log, logx.NewSysLog("formula.evaluate", fault),
			zap.String("expr", expr))
		return 0
	}
	return v
}

// BindUnit 把单位的属性、等级和生命写入变量表，前缀通常是 caster 或 target。
func BindUnit(vars Vars, prefix string, u *domain.FieldedUnit) {
	if u == nil {
		return
	}
	for _, st := range domain.AllStats() {
		vars[prefix+"."+st.String()] = float64(u.Stats[st])
	}
	vars[prefix+".LEVEL"] = float64(u.Level)
	vars[prefix+".HP"] = float64(u.HP)
	vars[prefix+".MAXHP"] = float64(u.MaxHP)
	vars[prefix+".MOVE"] = float64(u.Movement)
}

// Merge 把命名常量并入变量表，不覆盖已有的单位属性。
func Merge(vars Vars, consts map[string]float64) {
	for k, v := range consts {
		if _, exists := vars[k]; !exists {
			vars[k] = v
		}
	}
}
