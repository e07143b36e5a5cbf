// Package toolmap maps an abstract data capability (quote, option chain,
// price history, IV analysis, market sentiment) plus a tool-server ID to
// the concrete tool name to call and a parser that normalizes that
// server's JSON reply into the internal provider types. External tool
// servers return wildly different shapes for the same concept (Yahoo's
// "currentPrice" vs "regularMarketPrice" vs "price"); this registry is
// where that divergence is absorbed once, instead of in every call site.
package toolmap

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atlas-desktop/trading-backend/internal/data/provider"
)

// Capability names one of the data shapes a tool server can answer.
type Capability string

const (
	CapabilityQuote           Capability = "quote"
	CapabilityOptionChain     Capability = "option_chain"
	CapabilityPriceHistory    Capability = "price_history"
	CapabilityIVAnalysis      Capability = "iv_analysis"
	CapabilityMarketSentiment Capability = "market_sentiment"
)

// Parser normalizes a tool server's raw JSON-decoded response (already
// unmarshalled into Go's any-typed JSON representation) into one of the
// provider types, given the symbol/market the call was made for. It
// returns false if the payload could not be interpreted.
type Parser func(data any, symbol string, market provider.Market) (any, bool)

// Mapping is what a (capability, serverID) pair resolves to: the tool
// name to invoke on that server and the parser for its reply shape.
type Mapping struct {
	ToolName     string
	ParamMapping func(symbol string, market provider.Market, limit int) map[string]any
	Parser       Parser
}

// Registry is a (capability, serverID) -> Mapping lookup table.
type Registry struct {
	logger   *zap.Logger
	mappings map[Capability]map[string]Mapping
}

// NewRegistry creates an empty Registry. logger may be nil.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{logger: logger, mappings: make(map[Capability]map[string]Mapping)}
}

// Register adds or replaces the mapping for a (capability, serverID) pair.
func (r *Registry) Register(capability Capability, serverID string, mapping Mapping) {
	if r.mappings[capability] == nil {
		r.mappings[capability] = make(map[string]Mapping)
	}
	r.mappings[capability][serverID] = mapping
}

// Lookup returns the mapping for a (capability, serverID) pair.
func (r *Registry) Lookup(capability Capability, serverID string) (Mapping, bool) {
	byServer, ok := r.mappings[capability]
	if !ok {
		return Mapping{}, false
	}
	m, ok := byServer[serverID]
	return m, ok
}

// NewYahooRegistry builds a Registry pre-populated with mappings for a
// tool server shaped like the Yahoo Finance MCP connector: get_stock_info
// for quotes, get_historical_stock_prices for price history, and
// get_recommendations (repurposed as an analyst-sentiment proxy) for
// market sentiment.
func NewYahooRegistry(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)

	r.Register(CapabilityQuote, "yahoo", Mapping{
		ToolName: "get_stock_info",
		ParamMapping: func(symbol string, market provider.Market, limit int) map[string]any {
			return map[string]any{"symbol": symbol}
		},
		Parser: ParseQuote,
	})
	r.Register(CapabilityPriceHistory, "yahoo", Mapping{
		ToolName: "get_historical_stock_prices",
		ParamMapping: func(symbol string, market provider.Market, limit int) map[string]any {
			return map[string]any{"symbol": symbol, "limit": limit}
		},
		Parser: ParsePriceHistory,
	})
	r.Register(CapabilityMarketSentiment, "yahoo", Mapping{
		ToolName: "get_recommendations",
		ParamMapping: func(symbol string, market provider.Market, limit int) map[string]any {
			return map[string]any{"symbol": symbol}
		},
		Parser: ParseMarketSentiment,
	})
	return r
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func firstNonNilFloat(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if f, ok := toFloat(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// ParseQuote normalizes a Yahoo-shaped get_stock_info reply into a
// provider.Quote. Several field-name variants are tried for price,
// change, and volume since different tool-server versions expose
// different subsets.
func ParseQuote(data any, symbol string, market provider.Market) (any, bool) {
	m, ok := asMap(data)
	if !ok {
		return nil, false
	}

	price, ok := firstNonNilFloat(m, "currentPrice", "regularMarketPrice", "price")
	if !ok {
		price = 0.0
	}
	change, _ := firstNonNilFloat(m, "regularMarketChange", "change")
	changePct, _ := firstNonNilFloat(m, "regularMarketChangePercent", "changePercent")
	bid, _ := firstNonNilFloat(m, "bid")
	ask, _ := firstNonNilFloat(m, "ask")

	volume := int64(0)
	if v, ok := firstNonNilFloat(m, "volume", "regularMarketVolume"); ok {
		volume = int64(v)
	}

	return provider.Quote{
		Symbol:        symbol,
		Market:        market,
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Bid:           bid,
		Ask:           ask,
		Volume:        volume,
		Timestamp:     time.Now(),
	}, true
}

// ParsePriceHistory normalizes a Yahoo-shaped get_historical_stock_prices
// reply (either a bare bar array or an object carrying one under
// "prices") into a provider.PriceHistory.
func ParsePriceHistory(data any, symbol string, market provider.Market) (any, bool) {
	if data == nil {
		return nil, false
	}

	var rawBars []any
	switch v := data.(type) {
	case []any:
		rawBars = v
	case map[string]any:
		if prices, ok := v["prices"].([]any); ok {
			rawBars = prices
		}
	}
	if len(rawBars) == 0 {
		return nil, false
	}

	bars := make([]provider.PriceBar, 0, len(rawBars))
	for _, rb := range rawBars {
		barMap, ok := asMap(rb)
		if !ok {
			continue
		}
		date := parseBarDate(barMap["date"])
		if date.IsZero() {
			date = parseBarDate(barMap["timestamp"])
		}
		if date.IsZero() {
			date = time.Now()
		}

		open, _ := toFloat(barMap["open"])
		high, _ := toFloat(barMap["high"])
		low, _ := toFloat(barMap["low"])
		closeVal, _ := toFloat(barMap["close"])
		volume, _ := toInt64(barMap["volume"])

		bars = append(bars, provider.PriceBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closeVal,
			Volume: volume,
		})
	}
	if len(bars) == 0 {
		return nil, false
	}

	return provider.PriceHistory{Symbol: symbol, Market: market, Bars: bars}, true
}

func parseBarDate(v any) time.Time {
	switch t := v.(type) {
	case float64:
		return time.Unix(int64(t), 0).UTC()
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// ParseMarketSentiment derives a put/call-shaped MarketSentiment from a
// Yahoo-shaped analyst-recommendation list: buy-leaning grades count
// toward "call" pressure, sell-leaning grades toward "put" pressure, the
// rest as holds split evenly, mirroring the original tool mapper's proxy
// construction.
func ParseMarketSentiment(data any, symbol string, market provider.Market) (any, bool) {
	if data == nil {
		return nil, false
	}

	var recs []any
	switch v := data.(type) {
	case []any:
		recs = v
	case map[string]any:
		if list, ok := v["recommendations"].([]any); ok {
			recs = list
		} else {
			recs = []any{v}
		}
	}

	var buy, sell, hold int
	for _, rv := range recs {
		rm, ok := asMap(rv)
		if !ok {
			continue
		}
		grade := lowerFirstNonEmpty(rm, "recommendationKey", "toGrade", "rating")
		switch {
		case containsAny(grade, "buy", "overweight", "outperform", "strong_buy"):
			buy++
		case containsAny(grade, "sell", "underweight", "underperform"):
			sell++

		default:
			hold++
		}
	}

	total := buy + sell + hold
	if total == 0 {
		total = 1
	}

	callVol := int64(buy*10000 + hold*5000)
	putVol := int64(sell*10000 + hold*5000)
	denom := callVol
	if denom < 1 {
		denom = 1
	}
	ratio := float64(putVol) / float64(denom)

	sentiment := provider.SentimentNeutral
	switch {
	case ratio < 0.7:
		sentiment = provider.SentimentBullish
	case ratio > 1.3:
		sentiment = provider.SentimentBearish
	}

	return provider.MarketSentiment{
		Symbol:           symbol,
		PutCallRatio:     ratio,
		TotalCallVolume:  callVol,
		TotalPutVolume:   putVol,
		CallOpenInterest: callVol * 2,
		PutOpenInterest:  putVol * 2,
		Sentiment:        sentiment,
	}, true
}

func lowerFirstNonEmpty(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return strings.ToLower(s)
		}
	}
	return ""
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
