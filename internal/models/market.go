package models

// CompanyProfile is the provider's company profile for one symbol.
type CompanyProfile struct {
	Ticker               string  `json:"ticker"`
	Name                 string  `json:"name"`
	FinnhubIndustry      string  `json:"finnhubIndustry"`
	Exchange             string  `json:"exchange"`
	Country              string  `json:"country"`
	Currency             string  `json:"currency"`
	IPO                  string  `json:"ipo"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	ShareOutstanding     float64 `json:"shareOutstanding"`
	WebURL               string  `json:"weburl"`
	Logo                 string  `json:"logo"`
	Phone                string  `json:"phone"`
}

// IsEmpty reports whether the provider returned no profile (unknown symbol).
func (p CompanyProfile) IsEmpty() bool {
	return p.Name == "" && p.Ticker == "" && p.FinnhubIndustry == "" && p.Exchange == ""
}

// FetchStatus distinguishes "no data" from "call failed".
type FetchStatus int

const (
	StatusOK FetchStatus = iota
	StatusEmpty
	StatusFailed
)

func (s FetchStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result is the typed outcome of one provider call.
type Result[T any] struct {
	Value  T
	Status FetchStatus
	Err    error
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusOK}
}

// Empty reports a successful call that returned no data.
func Empty[T any]() Result[T] {
	return Result[T]{Status: StatusEmpty}
}

// Failed reports a failed call.
func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusFailed, Err: err}
}

// Ok reports whether the call returned data.
func (r Result[T]) Ok() bool {
	return r.Status == StatusOK
}
