package advice

import (
	"github.com/ternarybob/advisor/internal/models"
	"github.com/ternarybob/advisor/internal/services/rating"
)

// WeightPrecision is the number of decimals kept on allocation weights
const WeightPrecision = 4

// EqualWeight assigns 1/N to each ticker. It is a baseline, not an optimised portfolio.
func EqualWeight(tickers []string) []models.Allocation {
	out := make([]models.Allocation, 0, len(tickers))
	if len(tickers) == 0 {
		return out
	}
	w := rating.RoundTo(1/float64(len(tickers)), WeightPrecision)
	for _, t := range tickers {
		out = append(out, models.Allocation{Symbol: t, Weight: w})
	}
	return out
}
