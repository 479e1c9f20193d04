package advice

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/advisor/internal/models"
	"github.com/ternarybob/advisor/internal/services/rating"
)

// News window bounds
const (
	MinNewsDays  = 1
	MaxNewsDays  = 365
	MinNewsLimit = 1
	MaxNewsLimit = 200
)

var whitespace = regexp.MustCompile(`\s+`)

// ClampNewsWindow bounds the lookback days and article limit.
func ClampNewsWindow(days, limit int) (int, int) {
	return rating.ClampInt(days, MinNewsDays, MaxNewsDays), rating.ClampInt(limit, MinNewsLimit, MaxNewsLimit)
}

// NewsRange returns the [from, to] dates for a lookback ending at now.
func NewsRange(now time.Time, days int) (time.Time, time.Time) {
	to := now.UTC()
	return to.AddDate(0, 0, -days), to
}

// PrepareNews orders items newest first, cleans summaries and truncates to limit.
// The input slice is not modified.
func PrepareNews(items []models.NewsItem, limit int) []models.NewsItem {
	out := make([]models.NewsItem, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Datetime > out[j].Datetime })

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Headline = StripHTML(out[i].Headline)
		out[i].Summary = StripHTML(out[i].Summary)
	}
	return out
}

// StripHTML returns the text content of an HTML fragment with whitespace collapsed.
// Plain text passes through unchanged apart from whitespace.
func StripHTML(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
