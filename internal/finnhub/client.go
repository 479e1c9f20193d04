package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/advisor/internal/interfaces"
	"github.com/ternarybob/advisor/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the Finnhub API.
	DefaultBaseURL = "https://finnhub.io/api/v1"

	// DefaultTimeout bounds each HTTP call.
	DefaultTimeout = 20 * time.Second

	// DefaultRateLimit is requests per second (free tier allows 60/min with bursts).
	DefaultRateLimit = 1

	// DefaultBurst allows short bursts within the per-second budget.
	DefaultBurst = 5

	dateLayout = "2006-01-02"
)

// Client is a Finnhub API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

var _ interfaces.MarketDataProvider = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL. Blank keeps the default.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit. Zero or negative disables limiting.
func WithRateLimit(requestsPerSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// NewClient creates a new Finnhub API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultBurst),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = arbor.NewLogger()
	}

	return c
}

// get performs a GET request to the API and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
		return &RateLimitError{RetryAfter: time.Second}
	}

	if params == nil {
		params = url.Values{}
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Finnhub-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("path", path).
		Str("symbol", params.Get("symbol")).
		Msg("Finnhub API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := time.Second
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{RetryAfter: retryAfter}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetProfile retrieves the company profile for a symbol.
func (c *Client) GetProfile(ctx context.Context, symbol string) (*ProfileResponse, error) {
	var result ProfileResponse
	if err := c.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBasicFinancials retrieves all basic financial metrics for a symbol.
func (c *Client) GetBasicFinancials(ctx context.Context, symbol string) (*MetricResponse, error) {
	var result MetricResponse
	params := url.Values{"symbol": {symbol}, "metric": {"all"}}
	if err := c.get(ctx, "/stock/metric", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRecommendationTrends retrieves analyst recommendation trends, one entry per period.
func (c *Client) GetRecommendationTrends(ctx context.Context, symbol string) ([]RecommendationResponse, error) {
	var result []RecommendationResponse
	if err := c.get(ctx, "/stock/recommendation", url.Values{"symbol": {symbol}}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCompanyNews retrieves company news between two dates (inclusive).
func (c *Client) GetCompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]NewsResponse, error) {
	params := url.Values{
		"symbol": {symbol},
		"from":   {from.UTC().Format(dateLayout)},
		"to":     {to.UTC().Format(dateLayout)},
	}
	var result []NewsResponse
	if err := c.get(ctx, "/company-news", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CompanyProfile implements interfaces.MarketDataProvider.
func (c *Client) CompanyProfile(ctx context.Context, symbol string) models.Result[models.CompanyProfile] {
	p, err := c.GetProfile(ctx, symbol)
	if err != nil {
		return models.Failed[models.CompanyProfile](upstream("company_profile", symbol, err))
	}
	profile := models.CompanyProfile{
		Ticker:               p.Ticker,
		Name:                 p.Name,
		FinnhubIndustry:      p.FinnhubIndustry,
		Exchange:             p.Exchange,
		Country:              p.Country,
		Currency:             p.Currency,
		IPO:                  p.IPO,
		MarketCapitalization: float64(p.MarketCapitalization),
		ShareOutstanding:     float64(p.ShareOutstanding),
		WebURL:               p.WebURL,
		Logo:                 p.Logo,
		Phone:                p.Phone,
	}
	if profile.IsEmpty() {
		return models.Empty[models.CompanyProfile]()
	}
	return models.OK(profile)
}

// BasicFinancials implements interfaces.MarketDataProvider.
func (c *Client) BasicFinancials(ctx context.Context, symbol string) models.Result[map[string]any] {
	m, err := c.GetBasicFinancials(ctx, symbol)
	if err != nil {
		return models.Failed[map[string]any](upstream("basic_financials", symbol, err))
	}
	if len(m.Metric) == 0 {
		return models.Empty[map[string]any]()
	}
	return models.OK(m.Metric)
}

// RecommendationTrends implements interfaces.MarketDataProvider.
func (c *Client) RecommendationTrends(ctx context.Context, symbol string) models.Result[[]models.RecommendationTrend] {
	recs, err := c.GetRecommendationTrends(ctx, symbol)
	if err != nil {
		return models.Failed[[]models.RecommendationTrend](upstream("recommendation_trends", symbol, err))
	}
	if len(recs) == 0 {
		return models.Empty[[]models.RecommendationTrend]()
	}
	out := make([]models.RecommendationTrend, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.RecommendationTrend{
			Symbol:     r.Symbol,
			Period:     r.Period,
			StrongBuy:  r.StrongBuy,
			Buy:        r.Buy,
			Hold:       r.Hold,
			Sell:       r.Sell,
			StrongSell: r.StrongSell,
		})
	}
	return models.OK(out)
}

// CompanyNews implements interfaces.MarketDataProvider.
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) models.Result[[]models.NewsItem] {
	news, err := c.GetCompanyNews(ctx, symbol, from, to)
	if err != nil {
		return models.Failed[[]models.NewsItem](upstream("company_news", symbol, err))
	}
	if len(news) == 0 {
		return models.Empty[[]models.NewsItem]()
	}
	out := make([]models.NewsItem, 0, len(news))
	for _, n := range news {
		item := models.NewsItem{
			Datetime: n.Datetime,
			Headline: n.Headline,
			Source:   n.Source,
			URL:      n.URL,
			Summary:  n.Summary,
		}
		if t := n.Time(); !t.IsZero() {
			item.Date = FormatDate(t)
		}
		out = append(out, item)
	}
	return models.OK(out)
}

// FormatDate renders a UTC timestamp as ISO-8601 with a Z suffix.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + "Z"
}

func upstream(op, symbol string, err error) error {
	e := models.NewError(models.KindUpstreamUnavailable, op, err)
	e.Ticker = symbol
	return e
}
