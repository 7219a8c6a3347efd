package types

// Direction of a trade signal or position.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
	Close Direction = "CLOSE"
	Wait  Direction = "WAIT"
)

// Offset tells the exchange whether an order opens or closes a position.
type Offset string

const (
	OffsetOpen  Offset = "OPEN"
	OffsetClose Offset = "CLOSE"
)

// OrderStatus transitions are monotonic: PENDING -> SUBMITTED -> FILLED|FAILED.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderSubmitted OrderStatus = "SUBMITTED"
	OrderFilled    OrderStatus = "FILLED"
	OrderFailed    OrderStatus = "FAILED"
)

// Quote is an immutable snapshot of a contract's current market state.
type Quote struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`

	LastPrice  float64 `json:"last_price"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	PreClose   float64 `json:"pre_close"`
	UpperLimit float64 `json:"upper_limit"`
	LowerLimit float64 `json:"lower_limit"`

	Volume       int64   `json:"volume"`
	OpenInterest int64   `json:"open_interest"`
	Turnover     float64 `json:"turnover"`

	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`

	Datetime string `json:"datetime"`
}

// Kline is a single OHLC bar. Series are ordered oldest to newest.
type Kline struct {
	Symbol       string  `json:"symbol"`
	Datetime     string  `json:"datetime"`
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	Volume       int64   `json:"volume"`
	OpenInterest int64   `json:"open_interest"`
}

type Alignment string

const (
	AlignBullish Alignment = "bullish"
	AlignBearish Alignment = "bearish"
	AlignTangled Alignment = "tangled"
)

type Trend string

const (
	TrendUp       Trend = "up"
	TrendDown     Trend = "down"
	TrendSideways Trend = "sideways"
)

type Signal string

const (
	SignalBuy  Signal = "buy"
	SignalHold Signal = "hold"
	SignalSell Signal = "sell"
	SignalWait Signal = "wait"
)

type VolumeStatus string

const (
	VolumeSurge     VolumeStatus = "surge"
	VolumeMildSurge VolumeStatus = "mild_surge"
	VolumeShrink    VolumeStatus = "shrink"
	VolumeFlat      VolumeStatus = "flat"
	VolumeUnknown   VolumeStatus = "unknown"
)

// IndicatorSet holds everything derived from a kline series in one analysis
// cycle. RSI14 and MACDHist are advisory extras surfaced only in the prompt.
type IndicatorSet struct {
	MA5  float64 `json:"ma5"`
	MA10 float64 `json:"ma10"`
	MA20 float64 `json:"ma20"`

	BiasMA5    float64   `json:"bias_ma5"`
	Alignment  Alignment `json:"alignment"`
	Trend      Trend     `json:"trend"`
	Signal     Signal    `json:"signal"`
	SignalDesc string    `json:"signal_desc"`

	VolumeRatio  float64      `json:"volume_ratio"`
	VolumeStatus VolumeStatus `json:"volume_status"`
	AvgVolume    int64        `json:"avg_volume"`
	LastVolume   int64        `json:"last_volume"`

	RSI14    float64 `json:"rsi14"`
	MACDHist float64 `json:"macd_hist"`
}

// AnalysisContext is the read-only aggregate handed to the decision source.
type AnalysisContext struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`

	Quote      Quote        `json:"quote"`
	Klines     []Kline      `json:"klines"`
	Indicators IndicatorSet `json:"indicators"`
	Headlines  []string     `json:"headlines,omitempty"`
}

// ParseSource tags which path produced a Decision.
type ParseSource string

const (
	ParsedJSON        ParseSource = "json"
	ParsedFallback    ParseSource = "fallback"
	ParsedUnavailable ParseSource = "unavailable"
)

// Decision is the structured result of one analysis call. Every field is
// populated; absent or malformed model output falls back to neutral defaults.
type Decision struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`

	SentimentScore  int    `json:"sentiment_score"`
	TrendPrediction string `json:"trend_prediction"`
	OperationAdvice string `json:"operation_advice"`
	Confidence      string `json:"confidence_level"`

	Direction    Direction `json:"direction"`
	EntryPrice   float64   `json:"entry_price"`
	StopLoss     float64   `json:"stop_loss"`
	TakeProfit   float64   `json:"take_profit"`
	PositionSize int       `json:"position_size"`

	RiskLevel   string `json:"risk_level"`
	RiskWarning string `json:"risk_warning"`
	Summary     string `json:"analysis_summary"`
	KeyPoints   string `json:"key_points"`

	RawResponse string      `json:"-"`
	Source      ParseSource `json:"source"`
	Success     bool        `json:"success"`
	Error       string      `json:"error,omitempty"`
}

// TradeSignal is a proposed trade derived from a Decision or built directly.
// Price 0 means a market order.
type TradeSignal struct {
	Symbol     string    `json:"symbol"`
	Direction  Direction `json:"direction"`
	Volume     int       `json:"volume"`
	Price      float64   `json:"price"`
	StopLoss   float64   `json:"stop_loss"`
	TakeProfit float64   `json:"take_profit"`
	Reason     string    `json:"reason"`
	Source     string    `json:"source"`
}

// TradeResult is always produced, even on failure; Message explains the cause.
// TimedOut marks a fill wait that hit its deadline, in which case the order's
// true state is the last status the gateway reported.
type TradeResult struct {
	Success   bool      `json:"success"`
	TimedOut  bool      `json:"timed_out,omitempty"`
	Symbol    string    `json:"symbol"`
	Direction Direction `json:"direction"`
	Volume    int       `json:"volume"`
	Price     float64   `json:"price"`
	OrderID   string    `json:"order_id"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`
}

type AccountInfo struct {
	Balance     float64 `json:"balance"`
	Available   float64 `json:"available"`
	Margin      float64 `json:"margin"`
	FloatProfit float64 `json:"float_profit"`
	CloseProfit float64 `json:"close_profit"`
	RiskRatio   float64 `json:"risk_ratio"`
}

type PositionInfo struct {
	Symbol      string    `json:"symbol"`
	Exchange    string    `json:"exchange"`
	Direction   Direction `json:"direction"`
	Volume      int       `json:"volume"`
	CostPrice   float64   `json:"cost_price"`
	LastPrice   float64   `json:"last_price"`
	FloatProfit float64   `json:"float_profit"`
	Margin      float64   `json:"margin"`
}
