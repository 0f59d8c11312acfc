package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyABC(t *testing.T) {
	items := []ABCItem{
		{ProductID: "p-low", AnnualDemand: 100, UnitCost: 5},    // 500, cumulative 100%
		{ProductID: "p-big", AnnualDemand: 1000, UnitCost: 7.5}, // 7500, cumulative 75%
		{ProductID: "p-mid", AnnualDemand: 250, UnitCost: 8},    // 2000, cumulative 95%
	}

	results := ClassifyABC(items)

	assert.Len(t, results, 3)
	assert.Equal(t, "p-big", results[0].ProductID)
	assert.Equal(t, ClassA, results[0].Class)
	assert.Equal(t, "p-mid", results[1].ProductID)
	assert.Equal(t, ClassB, results[1].Class)
	assert.Equal(t, "p-low", results[2].ProductID)
	assert.Equal(t, ClassC, results[2].Class)

	assert.InDelta(t, 1.0, results[2].CumulativeShare, 1e-9)
}

func TestClassifyABCAllZeroValue(t *testing.T) {
	results := ClassifyABC([]ABCItem{
		{ProductID: "a"}, {ProductID: "b"},
	})
	for _, r := range results {
		assert.Equal(t, ClassC, r.Class)
	}
}

func TestClassifyABCEmpty(t *testing.T) {
	assert.Empty(t, ClassifyABC(nil))
}

func TestReorderPoint(t *testing.T) {
	assert.InDelta(t, 130, ReorderPoint(20, 5, 30), 1e-9)
	assert.InDelta(t, 0, ReorderPoint(0, 10, 0), 1e-9)
}
