// Package expression wraps expr-lang/expr with a compiled-program
// cache. Pricing rules store expressions like
// "IF(quantity >= 10, 15.0, 0.0)" evaluated against a line context.
package expression

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine compiles and caches expressions keyed by their source text.
type Engine struct {
	programCache map[string]*vm.Program
	mu           sync.RWMutex
}

// NewEngine creates a new expression engine
func NewEngine() *Engine {
	return &Engine{
		programCache: make(map[string]*vm.Program),
	}
}

// Evaluate compiles (if needed) and runs an expression against the given environment
func (e *Engine) Evaluate(expression string, env map[string]interface{}) (interface{}, error) {
	program, err := e.getProgram(expression, env)
	if err != nil {
		return nil, err
	}

	return expr.Run(program, env)
}

// EvaluateNumber runs an expression and coerces the result to float64.
func (e *Engine) EvaluateNumber(expression string, env map[string]interface{}) (float64, error) {
	out, err := e.Evaluate(expression, env)
	if err != nil {
		return 0, err
	}
	return toFloat(out)
}

// Validate compiles an expression without running it.
func (e *Engine) Validate(expression string, env map[string]interface{}) error {
	_, err := e.getProgram(expression, env)
	return err
}

// ClearCache drops all compiled programs.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.programCache = make(map[string]*vm.Program)
}

func (e *Engine) getProgram(expression string, env map[string]interface{}) (*vm.Program, error) {
	e.mu.RLock()
	if prog, ok := e.programCache[expression]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double check
	if prog, ok := e.programCache[expression]; ok {
		return prog, nil
	}

	options := []expr.Option{
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.Function("IF", func(params ...interface{}) (interface{}, error) {
			if len(params) != 3 {
				return nil, fmt.Errorf("IF requires 3 arguments (condition, true_value, false_value)")
			}
			cond, ok := params[0].(bool)
			if !ok {
				return nil, fmt.Errorf("IF condition must be boolean")
			}
			if cond {
				return params[1], nil
			}
			return params[2], nil
		}),
		expr.Function("MIN", func(params ...interface{}) (interface{}, error) {
			return foldFloat(params, "MIN", math.Min)
		}),
		expr.Function("MAX", func(params ...interface{}) (interface{}, error) {
			return foldFloat(params, "MAX", math.Max)
		}),
		expr.Function("ROUND", func(params ...interface{}) (interface{}, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("ROUND requires 2 arguments")
			}
			val, err := toFloat(params[0])
			if err != nil {
				return nil, fmt.Errorf("ROUND arg 1 must be number")
			}
			prec, ok := params[1].(int)
			if !ok {
				return nil, fmt.Errorf("ROUND arg 2 must be integer")
			}
			mult := math.Pow(10, float64(prec))
			return math.Round(val*mult) / mult, nil
		}),
		expr.Function("UPPER", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("UPPER requires 1 argument")
			}
			s, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("UPPER argument must be string")
			}
			return strings.ToUpper(s), nil
		}),
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, fmt.Errorf("expression compile failed: %w", err)
	}

	e.programCache[expression] = program
	return program, nil
}

func foldFloat(params []interface{}, name string, fn func(float64, float64) float64) (interface{}, error) {
	if len(params) < 2 {
		return nil, fmt.Errorf("%s requires at least 2 arguments", name)
	}
	acc, err := toFloat(params[0])
	if err != nil {
		return nil, fmt.Errorf("%s arguments must be numbers", name)
	}
	for _, p := range params[1:] {
		v, err := toFloat(p)
		if err != nil {
			return nil, fmt.Errorf("%s arguments must be numbers", name)
		}
		acc = fn(acc, v)
	}
	return acc, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("not a number: %T", v)
}
