package advice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/advisor/internal/models"
)

func TestClampNewsWindow(t *testing.T) {
	tests := []struct {
		days, limit         int
		wantDays, wantLimit int
	}{
		{30, 10, 30, 10},
		{0, 0, 1, 1},
		{-5, -1, 1, 1},
		{1000, 500, 365, 200},
	}

	for _, tt := range tests {
		days, limit := ClampNewsWindow(tt.days, tt.limit)
		if days != tt.wantDays || limit != tt.wantLimit {
			t.Errorf("ClampNewsWindow(%d, %d) = %d, %d; want %d, %d", tt.days, tt.limit, days, limit, tt.wantDays, tt.wantLimit)
		}
	}
}

func TestNewsRange(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	from, to := NewsRange(now, 7)
	assert.Equal(t, now, to)
	assert.Equal(t, time.Date(2026, 10, 9, 12, 0, 0, 0, time.UTC), from)
}

func TestPrepareNews_OrdersNewestFirstAndLimits(t *testing.T) {
	items := []models.NewsItem{
		{Datetime: 100, Headline: "old"},
		{Datetime: 300, Headline: "newest"},
		{Datetime: 200, Headline: "middle"},
	}

	out := PrepareNews(items, 2)

	require.Len(t, out, 2)
	assert.Equal(t, "newest", out[0].Headline)
	assert.Equal(t, "middle", out[1].Headline)
	assert.Equal(t, "old", items[0].Headline, "input untouched")
}

func TestPrepareNews_StripsHTML(t *testing.T) {
	out := PrepareNews([]models.NewsItem{{
		Datetime: 1,
		Headline: "Apple &amp; Partners",
		Summary:  "<p>Shares <b>rose</b>\n  after  earnings.</p>",
	}}, 10)

	require.Len(t, out, 1)
	assert.Equal(t, "Apple & Partners", out[0].Headline)
	assert.Equal(t, "Shares rose after earnings.", out[0].Summary)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain text", StripHTML("  plain   text "))
	assert.Equal(t, "", StripHTML(""))
	assert.Equal(t, "a b", StripHTML("<div>a</div> <span>b</span>"))
}
