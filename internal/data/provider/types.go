// Package provider defines the market-data capability contract shared by
// every concrete adapter (mock, yahoo, the aggregated fallback chain) and
// the response types those adapters return.
package provider

import "time"

// Market is one of the venues the data layer understands.
type Market string

const (
	MarketUS Market = "US"
	MarketJP Market = "JP"
	MarketHK Market = "HK"
)

// OptionType distinguishes calls from puts.
type OptionType string

const (
	OptionTypeCall OptionType = "call"
	OptionTypePut  OptionType = "put"
)

// Sentiment summarizes a put/call skew reading.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// Greeks holds the standard first/second-order option risk sensitivities.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// Quote is a single point-in-time price observation.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Market        Market    `json:"market"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Bid           float64   `json:"bid"`
	Ask           float64   `json:"ask"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// OptionContract is a single strike/expiration option quote.
type OptionContract struct {
	Symbol        string     `json:"symbol"`
	Strike        float64    `json:"strike"`
	Expiration    string     `json:"expiration"`
	Type          OptionType `json:"type"`
	Bid           float64    `json:"bid"`
	Ask           float64    `json:"ask"`
	Last          float64    `json:"last"`
	Volume        int64      `json:"volume"`
	OpenInterest  int64      `json:"open_interest"`
	ImpliedVol    float64    `json:"implied_vol"`
	Greeks        Greeks     `json:"greeks"`
}

// OptionChain is the full set of contracts for an underlying.
type OptionChain struct {
	Symbol      string           `json:"symbol"`
	Market      Market           `json:"market"`
	Expirations []string         `json:"expirations"`
	Contracts   []OptionContract `json:"contracts"`
	Timestamp   time.Time        `json:"timestamp"`
}

// VolatilitySurface is a coarse IV grid across strikes and expirations.
type VolatilitySurface struct {
	Symbol      string              `json:"symbol"`
	Expirations []string            `json:"expirations"`
	Strikes     []float64           `json:"strikes"`
	IV          map[string][]float64 `json:"iv"` // keyed by expiration, one value per strike
	Timestamp   time.Time           `json:"timestamp"`
}

// PriceBar is one OHLCV observation.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceHistory is an ordered (oldest-first) series of bars.
type PriceHistory struct {
	Symbol string     `json:"symbol"`
	Market Market     `json:"market"`
	Bars   []PriceBar `json:"bars"`
}

// IVAnalysis summarizes current implied vol against its own trailing range.
type IVAnalysis struct {
	Symbol        string  `json:"symbol"`
	CurrentIV     float64 `json:"current_iv"`
	IVRank        float64 `json:"iv_rank"`
	IVPercentile  float64 `json:"iv_percentile"`
	IV52WHigh     float64 `json:"iv_52w_high"`
	IV52WLow      float64 `json:"iv_52w_low"`
	IV30DAvg      float64 `json:"iv_30d_avg"`
}

// MarketSentiment summarizes put/call positioning for a symbol.
type MarketSentiment struct {
	Symbol           string    `json:"symbol"`
	PutCallRatio     float64   `json:"put_call_ratio"`
	TotalCallVolume  int64     `json:"total_call_volume"`
	TotalPutVolume   int64     `json:"total_put_volume"`
	CallOpenInterest int64     `json:"call_open_interest"`
	PutOpenInterest  int64     `json:"put_open_interest"`
	Sentiment        Sentiment `json:"sentiment"`
}
