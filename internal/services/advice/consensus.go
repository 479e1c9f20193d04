package advice

import (
	"github.com/ternarybob/advisor/internal/models"
)

// StanceThresholdPercent is the share of analysts the buy/sell bias must reach
// before the stance leaves "mixed".
const StanceThresholdPercent = 20

// LatestTrend picks the most recent period. Periods are YYYY-MM-DD so string order is date order.
func LatestTrend(trends []models.RecommendationTrend) (models.RecommendationTrend, bool) {
	if len(trends) == 0 {
		return models.RecommendationTrend{}, false
	}
	latest := trends[0]
	for _, t := range trends[1:] {
		if t.Period > latest.Period {
			latest = t
		}
	}
	return latest, true
}

// BuildConsensus summarises the latest recommendation period.
// No trends yields a zero-count "mixed" consensus.
func BuildConsensus(trends []models.RecommendationTrend) models.Consensus {
	latest, ok := LatestTrend(trends)
	if !ok {
		return models.Consensus{Stance: models.StanceMixed}
	}

	c := models.Consensus{
		Period:     latest.Period,
		StrongBuy:  latest.StrongBuy,
		Buy:        latest.Buy,
		Hold:       latest.Hold,
		Sell:       latest.Sell,
		StrongSell: latest.StrongSell,
	}
	c.Total = c.StrongBuy + c.Buy + c.Hold + c.Sell + c.StrongSell
	c.Bias = (c.StrongBuy + c.Buy) - (c.Sell + c.StrongSell)
	c.Stance = Stance(c.Bias, c.Total)
	return c
}

// Stance classifies a bias against the analyst total.
func Stance(bias, total int) string {
	if total <= 0 {
		return models.StanceMixed
	}
	// bias >= 20% of total, in integers
	switch {
	case bias*100 >= StanceThresholdPercent*total:
		return models.StanceBullish
	case bias*100 <= -StanceThresholdPercent*total:
		return models.StanceBearish
	default:
		return models.StanceMixed
	}
}
