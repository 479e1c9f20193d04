package models

import (
	"encoding/json"
	"math"
)

// Canonical metric keys, in evaluation order.
const (
	MetricPE                 = "pe"
	MetricPB                 = "pb"
	MetricPS                 = "ps"
	MetricROE                = "roe"
	MetricROA                = "roa"
	MetricGrossMarginTTM     = "grossMarginTTM"
	MetricOperatingMarginTTM = "operatingMarginTTM"
	MetricNetMarginTTM       = "netMarginTTM"
	MetricDebtToEquity       = "debtToEquity"
	MetricCurrentRatio       = "currentRatio"
	MetricQuickRatio         = "quickRatio"
	MetricBeta               = "beta"
	MetricDividendYieldTTM   = "dividendYieldTTM"
	MetricRevenueGrowthTTM   = "revenueGrowthTTM"
	MetricEPSGrowthTTM       = "epsGrowthTTM"
)

// MetricKeys lists every canonical key.
var MetricKeys = []string{
	MetricPE, MetricPB, MetricPS,
	MetricROE, MetricROA,
	MetricGrossMarginTTM, MetricOperatingMarginTTM, MetricNetMarginTTM,
	MetricDebtToEquity, MetricCurrentRatio, MetricQuickRatio,
	MetricBeta, MetricDividendYieldTTM,
	MetricRevenueGrowthTTM, MetricEPSGrowthTTM,
}

// CanonicalMetrics is the normalised fundamentals record for one ticker.
// A nil field means unknown; zero is a real value.
type CanonicalMetrics struct {
	PE                 *float64 `json:"pe,omitempty"`
	PB                 *float64 `json:"pb,omitempty"`
	PS                 *float64 `json:"ps,omitempty"`
	ROE                *float64 `json:"roe,omitempty"`
	ROA                *float64 `json:"roa,omitempty"`
	GrossMarginTTM     *float64 `json:"grossMarginTTM,omitempty"`
	OperatingMarginTTM *float64 `json:"operatingMarginTTM,omitempty"`
	NetMarginTTM       *float64 `json:"netMarginTTM,omitempty"`
	DebtToEquity       *float64 `json:"debtToEquity,omitempty"`
	CurrentRatio       *float64 `json:"currentRatio,omitempty"`
	QuickRatio         *float64 `json:"quickRatio,omitempty"`
	Beta               *float64 `json:"beta,omitempty"`
	DividendYieldTTM   *float64 `json:"dividendYieldTTM,omitempty"`
	RevenueGrowthTTM   *float64 `json:"revenueGrowthTTM,omitempty"`
	EPSGrowthTTM       *float64 `json:"epsGrowthTTM,omitempty"`
}

func (m *CanonicalMetrics) field(key string) **float64 {
	switch key {
	case MetricPE:
		return &m.PE
	case MetricPB:
		return &m.PB
	case MetricPS:
		return &m.PS
	case MetricROE:
		return &m.ROE
	case MetricROA:
		return &m.ROA
	case MetricGrossMarginTTM:
		return &m.GrossMarginTTM
	case MetricOperatingMarginTTM:
		return &m.OperatingMarginTTM
	case MetricNetMarginTTM:
		return &m.NetMarginTTM
	case MetricDebtToEquity:
		return &m.DebtToEquity
	case MetricCurrentRatio:
		return &m.CurrentRatio
	case MetricQuickRatio:
		return &m.QuickRatio
	case MetricBeta:
		return &m.Beta
	case MetricDividendYieldTTM:
		return &m.DividendYieldTTM
	case MetricRevenueGrowthTTM:
		return &m.RevenueGrowthTTM
	case MetricEPSGrowthTTM:
		return &m.EPSGrowthTTM
	}
	return nil
}

// Get returns the value for a canonical key and whether it is known.
func (m CanonicalMetrics) Get(key string) (float64, bool) {
	f := m.field(key)
	if f == nil || *f == nil {
		return 0, false
	}
	return **f, true
}

// Set stores a value for a canonical key. Unknown keys are ignored.
func (m *CanonicalMetrics) Set(key string, v float64) {
	if f := m.field(key); f != nil {
		*f = &v
	}
}

// Len returns the number of known metrics.
func (m CanonicalMetrics) Len() int {
	n := 0
	for _, k := range MetricKeys {
		if _, ok := m.Get(k); ok {
			n++
		}
	}
	return n
}

// ToProps flattens the known metrics into a props map.
func (m CanonicalMetrics) ToProps() map[string]any {
	props := make(map[string]any, m.Len())
	for _, k := range MetricKeys {
		if v, ok := m.Get(k); ok {
			props[k] = v
		}
	}
	return props
}

// MetricsFromProps rebuilds canonical metrics from stored asset props.
// Non-numeric or non-finite values are treated as unknown.
func MetricsFromProps(props map[string]any) CanonicalMetrics {
	var m CanonicalMetrics
	for _, k := range MetricKeys {
		raw, ok := props[k]
		if !ok {
			continue
		}
		var v float64
		switch n := raw.(type) {
		case float64:
			v = n
		case float32:
			v = float64(n)
		case int:
			v = float64(n)
		case int64:
			v = float64(n)
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				continue
			}
			v = f
		default:
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		m.Set(k, v)
	}
	return m
}

// Float returns a pointer to v, for building metrics literals.
func Float(v float64) *float64 {
	return &v
}
