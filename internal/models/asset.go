package models

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/advisor/internal/common"
)

var validate = validator.New()

// Asset is a security node in the graph, identified by its canonical ticker.
type Asset struct {
	Ticker      string         `json:"ticker"`
	Name        string         `json:"name"`
	Sector      string         `json:"sector"`
	Props       map[string]any `json:"props,omitempty"`
	PropsSource string         `json:"props_source,omitempty"` // ingest run that last wrote props
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Metrics returns the canonical metrics stored in the asset's props.
func (a *Asset) Metrics() CanonicalMetrics {
	return MetricsFromProps(a.Props)
}

// Sector is a sector node. Key is the case-insensitive identity, Name the display form.
type Sector struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AssetRow is one normalised input row for the graph upsert.
type AssetRow struct {
	Ticker string         `json:"ticker" validate:"required,max=32"`
	Name   string         `json:"name" validate:"max=256"`
	Sector string         `json:"sector" validate:"max=128"`
	Props  map[string]any `json:"props,omitempty"`
}

// Validate checks the row against its struct tags.
func (r AssetRow) Validate() error {
	return validate.Struct(r)
}

// ValidateStruct runs tag validation on any request or record struct.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// IngestReport summarises one graph upsert call.
type IngestReport struct {
	RunID          string   `json:"run_id"`
	Received       int      `json:"received"`
	Created        int      `json:"created"`
	Updated        int      `json:"updated"`
	CreatedTickers []string `json:"created_tickers"`
	UpdatedTickers []string `json:"updated_tickers"`
}

// GraphCounts holds node and relation totals.
type GraphCounts struct {
	Assets    int `json:"assets"`
	Sectors   int `json:"sectors"`
	Relations int `json:"relations"`
}

// CoalesceRows canonicalises tickers, drops blank ones and merges rows that share a ticker.
// Merged rows keep first-seen order. Within a batch the first non-empty name is kept, the last
// non-empty sector wins and props are overlaid in order.
func CoalesceRows(rows []AssetRow) []AssetRow {
	index := make(map[string]int, len(rows))
	out := make([]AssetRow, 0, len(rows))

	for _, row := range rows {
		ticker := common.NormalizeTicker(row.Ticker)
		if ticker == "" {
			continue
		}

		i, ok := index[ticker]
		if !ok {
			merged := AssetRow{
				Ticker: ticker,
				Name:   row.Name,
				Sector: row.Sector,
				Props:  make(map[string]any, len(row.Props)),
			}
			for k, v := range row.Props {
				merged.Props[k] = v
			}
			index[ticker] = len(out)
			out = append(out, merged)
			continue
		}

		existing := &out[i]
		if existing.Name == "" {
			existing.Name = row.Name
		}
		if row.Sector != "" {
			existing.Sector = row.Sector
		}
		for k, v := range row.Props {
			existing.Props[k] = v
		}
	}

	return out
}
