package seed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/advisor/internal/models"
)

func TestLoadCSV(t *testing.T) {
	input := "Sector,Symbol,Name\n" +
		"Technology,AAPL,Apple Inc\n" +
		"# comment line\n" +
		"Energy, xom ,\"Exxon Mobil, Corp\"\n" +
		",,\n" +
		"Pharmaceuticals,JNJ\n"

	rows, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []models.AssetRow{
		{Ticker: "AAPL", Name: "Apple Inc", Sector: "Technology"},
		{Ticker: "xom", Name: "Exxon Mobil, Corp", Sector: "Energy"},
		{Ticker: "JNJ", Sector: "Pharmaceuticals"},
	}, rows)
}

func TestLoadCSV_Errors(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("name,sector\nApple,Technology\n"))
	assert.Error(t, err, "no ticker column")

	rows, err := LoadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoadYAML(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"list", `
- ticker: AAPL
  name: Apple Inc
  sector: Technology
- ticker: MSFT
  sector: Technology
  props:
    country: US
- name: missing ticker
`},
		{"assets key", `
assets:
  - ticker: AAPL
    name: Apple Inc
    sector: Technology
  - ticker: MSFT
    sector: Technology
    props:
      country: US
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := LoadYAML(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, models.AssetRow{Ticker: "AAPL", Name: "Apple Inc", Sector: "Technology"}, rows[0])
			assert.Equal(t, "MSFT", rows[1].Ticker)
			assert.Equal(t, "US", rows[1].Props["country"])
		})
	}
}

func TestLoadYAML_NormalizesProps(t *testing.T) {
	rows, err := LoadYAML(strings.NewReader(`
- ticker: VOD.L
  sector: Telecommunications
  props:
    pe: "8"
    roe: 18
    pb: N/A
    beta: .nan
    dividendYieldTTM: 2.5
    marketCap: .inf
    country: GB
`))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	props := rows[0].Props
	assert.Equal(t, 8.0, props["pe"])
	assert.Equal(t, 18.0, props["roe"])
	assert.Equal(t, 0.025, props["dividendYieldTTM"])
	assert.Equal(t, "GB", props["country"])
	assert.NotContains(t, props, "pb")
	assert.NotContains(t, props, "beta")
	assert.NotContains(t, props, "marketCap")

	_, err = json.Marshal(props)
	require.NoError(t, err, "props must be storable")

	m := models.MetricsFromProps(props)
	pe, ok := m.Get(models.MetricPE)
	require.True(t, ok)
	assert.Equal(t, 8.0, pe)
}

func TestLoadYAML_Errors(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("just a string"))
	assert.Error(t, err)

	_, err = LoadYAML(strings.NewReader("- ticker: [unclosed"))
	assert.Error(t, err)

	rows, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "universe.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("ticker,name,sector\nAAPL,Apple,Technology\n"), 0644))
	rows, err := LoadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	ymlPath := filepath.Join(dir, "universe.YML")
	require.NoError(t, os.WriteFile(ymlPath, []byte("- ticker: AAPL\n"), 0644))
	rows, err = LoadFile(ymlPath)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	txtPath := filepath.Join(dir, "universe.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("AAPL"), 0644))
	_, err = LoadFile(txtPath)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
