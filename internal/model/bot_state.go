package model

import "time"

// PricePoint is one sample of the bot's price chart
type PricePoint struct {
	Timestamp int64   `json:"timestamp"` // unix ms
	Price     float64 `json:"price"`
}

// Arbitrage is one fill shown in the bot's activity list
type Arbitrage struct {
	Timestamp int64   `json:"timestamp"` // unix ms
	Price     float64 `json:"price"`
	Side      string  `json:"side"` // buy or sell
	Profit    float64 `json:"profit"`
}

// BotState is the reconstructed view of one bot: its configuration plus live economics.
// It is rebuilt on every fetch and never stored.
type BotState struct {
	ID          string    `json:"id"`
	Pair        string    `json:"pair"`
	DisplayPair string    `json:"displayPair"`
	Status      string    `json:"status"`
	UpperLimit  float64   `json:"upperLimit"`
	LowerLimit  float64   `json:"lowerLimit"`
	GridCount   int       `json:"gridCount"`
	GridType    GridType  `json:"gridType"`
	Investment  float64   `json:"investment"`
	StartedAt   time.Time `json:"startedAt"`
	Notes       *string   `json:"notes"`

	CurrentPrice    float64      `json:"currentPrice"`
	RealizedPnl     float64      `json:"realizedPnl"`
	UnrealizedPnl   float64      `json:"unrealizedPnl"`
	TotalArbitrages int          `json:"totalArbitrages"`
	TotalFees       float64      `json:"totalFees"`
	ROI             float64      `json:"roi"`
	APR             float64      `json:"apr"`
	Runtime         string       `json:"runtime"`
	RuntimeMs       int64        `json:"runtimeMs"`
	GridLevels      []float64    `json:"gridLevels"`
	PriceHistory    []PricePoint `json:"priceHistory"`
	Arbitrages      []Arbitrage  `json:"arbitrages"`

	// populated for synthetic bots only
	EntryPrice float64 `json:"entryPrice,omitempty"`
	ShareLink  string  `json:"shareLink,omitempty"`
}

// NewBotState copies the configuration fields of bot into an otherwise zero state.
// Slices are non-nil so the JSON shape never changes.
func NewBotState(bot *GridBot) BotState {
	return BotState{
		ID:           bot.ID,
		Pair:         bot.Pair,
		DisplayPair:  bot.DisplayPair,
		Status:       bot.Status,
		UpperLimit:   bot.UpperLimit,
		LowerLimit:   bot.LowerLimit,
		GridCount:    bot.GridCount,
		GridType:     bot.GridType,
		Investment:   bot.Investment,
		StartedAt:    bot.StartedAt,
		Notes:        bot.Notes,
		GridLevels:   []float64{},
		PriceHistory: []PricePoint{},
		Arbitrages:   []Arbitrage{},
	}
}
