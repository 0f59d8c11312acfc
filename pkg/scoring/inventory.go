package scoring

import "sort"

// ABC classes, by descending share of annual consumption value.
const (
	ClassA = "A"
	ClassB = "B"
	ClassC = "C"
)

// ABCItem is one product's consumption profile.
type ABCItem struct {
	ProductID    string
	AnnualDemand float64
	UnitCost     float64
}

// ABCResult classifies one product.
type ABCResult struct {
	ProductID        string  `json:"product_id"`
	ConsumptionValue float64 `json:"consumption_value"`
	CumulativeShare  float64 `json:"cumulative_share"`
	Class            string  `json:"class"`
}

// ClassifyABC ranks products by annual consumption value
// (demand * unit cost) and assigns classes by cumulative share:
// <= 80% -> A, <= 95% -> B, else C. Ties are broken by product ID for
// a deterministic ordering.
func ClassifyABC(items []ABCItem) []ABCResult {
	results := make([]ABCResult, 0, len(items))
	total := 0.0
	for _, item := range items {
		value := item.AnnualDemand * item.UnitCost
		total += value
		results = append(results, ABCResult{
			ProductID:        item.ProductID,
			ConsumptionValue: value,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].ConsumptionValue != results[j].ConsumptionValue {
			return results[i].ConsumptionValue > results[j].ConsumptionValue
		}
		return results[i].ProductID < results[j].ProductID
	})

	cumulative := 0.0
	for i := range results {
		cumulative += results[i].ConsumptionValue
		share := 1.0
		if total > 0 {
			share = cumulative / total
		}
		results[i].CumulativeShare = share
		switch {
		case share <= 0.80:
			results[i].Class = ClassA
		case share <= 0.95:
			results[i].Class = ClassB
		default:
			results[i].Class = ClassC
		}
	}

	return results
}

// ReorderPoint computes daily_demand * lead_time_days + safety_stock.
func ReorderPoint(dailyDemand, leadTimeDays, safetyStock float64) float64 {
	return dailyDemand*leadTimeDays + safetyStock
}
