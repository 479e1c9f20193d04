package finnhub

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FlexFloat decodes numbers that Finnhub sometimes sends as strings or null.
type FlexFloat float64

// UnmarshalJSON accepts a number, a numeric string, or null/empty (zero).
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Non-numeric placeholder values decode as zero
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// ProfileResponse is the /stock/profile2 payload. Unknown symbols return {}.
type ProfileResponse struct {
	Country              string    `json:"country"`
	Currency             string    `json:"currency"`
	Exchange             string    `json:"exchange"`
	FinnhubIndustry      string    `json:"finnhubIndustry"`
	IPO                  string    `json:"ipo"`
	Logo                 string    `json:"logo"`
	MarketCapitalization FlexFloat `json:"marketCapitalization"`
	Name                 string    `json:"name"`
	Phone                string    `json:"phone"`
	ShareOutstanding     FlexFloat `json:"shareOutstanding"`
	Ticker               string    `json:"ticker"`
	WebURL               string    `json:"weburl"`
}

// MetricResponse is the /stock/metric?metric=all payload.
type MetricResponse struct {
	Symbol     string          `json:"symbol"`
	MetricType string          `json:"metricType"`
	Metric     map[string]any  `json:"metric"`
	Series     json.RawMessage `json:"series,omitempty"`
}

// UnmarshalJSON tolerates "metric": [] which Finnhub sends for symbols without data.
func (m *MetricResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Symbol     string          `json:"symbol"`
		MetricType string          `json:"metricType"`
		Metric     json.RawMessage `json:"metric"`
		Series     json.RawMessage `json:"series,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Symbol = raw.Symbol
	m.MetricType = raw.MetricType
	m.Series = raw.Series
	m.Metric = map[string]any{}
	if len(raw.Metric) > 0 && raw.Metric[0] == '{' {
		if err := json.Unmarshal(raw.Metric, &m.Metric); err != nil {
			return err
		}
	}
	return nil
}

// RecommendationResponse is one period from /stock/recommendation.
type RecommendationResponse struct {
	Symbol     string `json:"symbol"`
	Period     string `json:"period"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// NewsResponse is one article from /company-news.
type NewsResponse struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// Time returns the article publish time in UTC, zero when unset.
func (n NewsResponse) Time() time.Time {
	if n.Datetime <= 0 {
		return time.Time{}
	}
	return time.Unix(n.Datetime, 0).UTC()
}
