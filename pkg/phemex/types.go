package phemex

// Credentials is a decrypted API key pair. The client never stores it.
type Credentials struct {
	APIKey    string
	APISecret string
}

// IsZero reports whether either half of the pair is missing
func (c Credentials) IsZero() bool {
	return c.APIKey == "" || c.APISecret == ""
}

// Param is one query parameter. Parameters are signed and sent in slice order.
type Param struct {
	Key   string
	Value string
}

// Ticker is the normalized 24h ticker
type Ticker struct {
	Symbol    string  `json:"symbol"`
	LastPrice float64 `json:"lastPrice"`
}

// Trade is one normalized fill
type Trade struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	Side      string  `json:"side"`
	Fee       float64 `json:"fee"`
	Profit    float64 `json:"profit"`
}

// PnlSnapshot is the normalized realized PnL for a symbol
type PnlSnapshot struct {
	RealizedPnl float64 `json:"realizedPnl"`
}

// Order is one normalized open order
type Order struct {
	OrderID   string  `json:"orderId"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"createdAt"`
}

const (
	SideBuy  = "buy"
	SideSell = "sell"
)

