// Package seed loads a ticker universe from CSV or YAML files.
package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/advisor/internal/models"
	"github.com/ternarybob/advisor/internal/services/metrics"
)

// Entry is one universe row as written in a seed file.
type Entry struct {
	Ticker string         `yaml:"ticker"`
	Name   string         `yaml:"name"`
	Sector string         `yaml:"sector"`
	Props  map[string]any `yaml:"props,omitempty"`
}

// universeFile accepts either a bare list or an `assets:` document.
type universeFile struct {
	Assets []Entry `yaml:"assets"`
}

// LoadFile reads rows from path. The format follows the extension: .csv, .yaml or .yml.
func LoadFile(path string) ([]models.AssetRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f)
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported seed file type %q (expected .csv, .yaml or .yml)", filepath.Ext(path))
	}
}

// LoadCSV reads a header row naming at least a ticker column (also accepted: symbol), plus
// optional name and sector columns in any order. Blank lines and rows without a ticker are skipped.
func LoadCSV(r io.Reader) ([]models.AssetRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err == io.EOF {
		return []models.AssetRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if key == "symbol" {
			key = "ticker"
		}
		if _, ok := columns[key]; !ok {
			columns[key] = i
		}
	}
	if _, ok := columns["ticker"]; !ok {
		return nil, fmt.Errorf("csv header must include a ticker column, got %v", header)
	}

	cell := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := []models.AssetRow{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		ticker := cell(record, "ticker")
		if ticker == "" {
			continue
		}
		rows = append(rows, models.AssetRow{
			Ticker: ticker,
			Name:   cell(record, "name"),
			Sector: cell(record, "sector"),
		})
	}
	return rows, nil
}

// LoadYAML reads either a list of entries or a mapping with an `assets` list.
func LoadYAML(r io.Reader) ([]models.AssetRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read yaml: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return []models.AssetRow{}, nil
	}

	var entries []Entry
	switch node.Content[0].Kind {
	case yaml.SequenceNode:
		if err := node.Content[0].Decode(&entries); err != nil {
			return nil, fmt.Errorf("failed to decode yaml entries: %w", err)
		}
	case yaml.MappingNode:
		var doc universeFile
		if err := node.Content[0].Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode yaml document: %w", err)
		}
		entries = doc.Assets
	default:
		return nil, fmt.Errorf("yaml seed must be a list or a mapping with an assets key")
	}

	rows := make([]models.AssetRow, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Ticker) == "" {
			continue
		}
		rows = append(rows, models.AssetRow{
			Ticker: strings.TrimSpace(e.Ticker),
			Name:   strings.TrimSpace(e.Name),
			Sector: strings.TrimSpace(e.Sector),
			Props:  cleanProps(e.Props),
		})
	}
	return rows, nil
}

// cleanProps coerces canonical metric keys to finite floats (quoted numbers included) and drops
// values that cannot be stored: unparseable metrics and non-finite floats under any key.
func cleanProps(props map[string]any) map[string]any {
	if len(props) == 0 {
		return props
	}

	canonical := make(map[string]struct{}, len(models.MetricKeys))
	for _, k := range models.MetricKeys {
		canonical[k] = struct{}{}
	}

	out := make(map[string]any, len(props))
	for k, v := range props {
		if _, ok := canonical[k]; ok {
			normalize := metrics.Normalize
			if k == models.MetricDividendYieldTTM {
				normalize = metrics.NormalizePercent
			}
			if f, ok := normalize(v); ok {
				out[k] = f
			}
			continue
		}
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			continue
		}
		out[k] = v
	}
	return out
}
