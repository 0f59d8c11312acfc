package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateArithmetic(t *testing.T) {
	e := NewEngine()

	out, err := e.EvaluateNumber("quantity * unit_price", map[string]interface{}{
		"quantity":   3.0,
		"unit_price": 12.5,
	})

	assert.NoError(t, err)
	assert.InDelta(t, 37.5, out, 1e-9)
}

func TestEvaluateIFFunction(t *testing.T) {
	e := NewEngine()

	env := map[string]interface{}{"quantity": 12.0, "line_total": 600.0}
	out, err := e.EvaluateNumber("IF(quantity >= 10, 15.0, 0.0)", env)
	assert.NoError(t, err)
	assert.InDelta(t, 15.0, out, 1e-9)

	env["quantity"] = 2.0
	out, err = e.EvaluateNumber("IF(quantity >= 10, 15.0, 0.0)", env)
	assert.NoError(t, err)
	assert.Zero(t, out)
}

func TestEvaluateMinMaxRound(t *testing.T) {
	e := NewEngine()
	env := map[string]interface{}{}

	out, err := e.EvaluateNumber("MIN(MAX(7.0, 3.0), 5.0)", env)
	assert.NoError(t, err)
	assert.InDelta(t, 5.0, out, 1e-9)

	out, err = e.EvaluateNumber("ROUND(3.14159, 2)", env)
	assert.NoError(t, err)
	assert.InDelta(t, 3.14, out, 1e-9)
}

func TestValidateRejectsBadSyntax(t *testing.T) {
	e := NewEngine()
	assert.Error(t, e.Validate("quantity >=", map[string]interface{}{"quantity": 0.0}))
	assert.NoError(t, e.Validate("quantity >= 1", map[string]interface{}{"quantity": 0.0}))
}

func TestProgramCacheReuse(t *testing.T) {
	e := NewEngine()
	env := map[string]interface{}{"x": 1.0}

	_, err := e.Evaluate("x + 1", env)
	assert.NoError(t, err)
	assert.Len(t, e.programCache, 1)

	_, err = e.Evaluate("x + 1", env)
	assert.NoError(t, err)
	assert.Len(t, e.programCache, 1)

	e.ClearCache()
	assert.Empty(t, e.programCache)
}
