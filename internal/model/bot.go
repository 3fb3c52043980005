package model

import (
	"math"
	"strings"
	"time"
)

// GridType selects how ladder levels are spaced
type GridType string

const (
	GridArithmetic GridType = "arithmetic"
	GridGeometric  GridType = "geometric"
)

// Valid reports whether t is a known spacing
func (t GridType) Valid() bool {
	return t == GridArithmetic || t == GridGeometric
}

// Bot status constants
const (
	BotStatusActive  = "active"
	BotStatusPaused  = "paused"
	BotStatusStopped = "stopped"
)

// GridBot is a user-declared configuration of a grid bot running on the exchange.
// The service only observes it.
type GridBot struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Pair        string    `json:"pair"`        // exchange symbol, e.g. BTCUSDT
	DisplayPair string    `json:"displayPair"` // e.g. BTC/USDT
	UpperLimit  float64   `json:"upperLimit"`
	LowerLimit  float64   `json:"lowerLimit"`
	GridCount   int       `json:"gridCount"`
	GridType    GridType  `json:"gridType"`
	Investment  float64   `json:"investment"`
	StartedAt   time.Time `json:"startedAt"`
	Notes       *string   `json:"notes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks the invariants reconstruction depends on
func (b *GridBot) Validate() error {
	if b.Pair == "" {
		return invalid("pair", "is required")
	}
	if !finitePositive(b.LowerLimit) {
		return invalid("lowerLimit", "must be greater than 0")
	}
	if !finitePositive(b.UpperLimit) || b.UpperLimit <= b.LowerLimit {
		return invalid("upperLimit", "must be greater than lowerLimit")
	}
	if b.GridCount < 1 {
		return invalid("gridCount", "must be at least 1")
	}
	if !b.GridType.Valid() {
		return invalid("gridType", "must be arithmetic or geometric")
	}
	if !finitePositive(b.Investment) {
		return invalid("investment", "must be greater than 0")
	}
	if b.StartedAt.IsZero() {
		return invalid("startedAt", "is required")
	}
	switch b.Status {
	case BotStatusActive, BotStatusPaused, BotStatusStopped:
	default:
		return invalid("status", "must be active, paused or stopped")
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// NormalizePair turns user input into the exchange symbol and the display form.
// "btc/usdt" gives ("BTCUSDT", "BTC/USDT"); without a slash the last four characters are the quote.
func NormalizePair(input string) (pair, display string, err error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if s == "" {
		return "", "", invalid("pair", "is required")
	}

	var base, quote string
	if i := strings.Index(s, "/"); i >= 0 {
		base, quote = s[:i], s[i+1:]
	} else {
		if len(s) <= 4 {
			return "", "", invalid("pair", "must look like BTC/USDT or BTCUSDT")
		}
		base, quote = s[:len(s)-4], s[len(s)-4:]
	}

	if !isSymbolPart(base) || !isSymbolPart(quote) {
		return "", "", invalid("pair", "must look like BTC/USDT or BTCUSDT")
	}
	return base + quote, base + "/" + quote, nil
}

func isSymbolPart(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// CreateBotRequest represents the request to register a bot
type CreateBotRequest struct {
	Pair       string    `json:"pair" binding:"required"`
	UpperLimit float64   `json:"upperLimit" binding:"required,gt=0"`
	LowerLimit float64   `json:"lowerLimit" binding:"required,gt=0"`
	GridCount  int       `json:"gridCount" binding:"required,min=1"`
	GridType   GridType  `json:"gridType" binding:"omitempty,oneof=arithmetic geometric"`
	Investment float64   `json:"investment" binding:"required,gt=0"`
	StartedAt  time.Time `json:"startedAt" binding:"required"`
	Notes      *string   `json:"notes" binding:"omitempty,max=1000"`
	Status     string    `json:"status" binding:"omitempty,oneof=active paused stopped"`
}

// UpdateBotRequest is a partial update; nil fields are left untouched
type UpdateBotRequest struct {
	Pair       *string    `json:"pair"`
	UpperLimit *float64   `json:"upperLimit" binding:"omitempty,gt=0"`
	LowerLimit *float64   `json:"lowerLimit" binding:"omitempty,gt=0"`
	GridCount  *int       `json:"gridCount" binding:"omitempty,min=1"`
	GridType   *GridType  `json:"gridType" binding:"omitempty,oneof=arithmetic geometric"`
	Investment *float64   `json:"investment" binding:"omitempty,gt=0"`
	StartedAt  *time.Time `json:"startedAt"`
	Notes      *string    `json:"notes" binding:"omitempty,max=1000"`
	Status     *string    `json:"status" binding:"omitempty,oneof=active paused stopped"`
}

// NewGridBot builds an unsaved bot from req, applying defaults and pair normalization
func NewGridBot(userID string, req *CreateBotRequest) (*GridBot, error) {
	pair, display, err := NormalizePair(req.Pair)
	if err != nil {
		return nil, err
	}

	bot := &GridBot{
		UserID:      userID,
		Pair:        pair,
		DisplayPair: display,
		UpperLimit:  req.UpperLimit,
		LowerLimit:  req.LowerLimit,
		GridCount:   req.GridCount,
		GridType:    req.GridType,
		Investment:  req.Investment,
		StartedAt:   req.StartedAt.UTC(),
		Notes:       req.Notes,
		Status:      req.Status,
	}
	if bot.GridType == "" {
		bot.GridType = GridArithmetic
	}
	if bot.Status == "" {
		bot.Status = BotStatusActive
	}
	return bot, bot.Validate()
}

// Apply merges req into b and re-validates the result. b is left untouched when the merge is rejected.
func (b *GridBot) Apply(req *UpdateBotRequest) error {
	merged := *b
	if req.Pair != nil {
		pair, display, err := NormalizePair(*req.Pair)
		if err != nil {
			return err
		}
		merged.Pair, merged.DisplayPair = pair, display
	}
	if req.UpperLimit != nil {
		merged.UpperLimit = *req.UpperLimit
	}
	if req.LowerLimit != nil {
		merged.LowerLimit = *req.LowerLimit
	}
	if req.GridCount != nil {
		merged.GridCount = *req.GridCount
	}
	if req.GridType != nil {
		merged.GridType = *req.GridType
	}
	if req.Investment != nil {
		merged.Investment = *req.Investment
	}
	if req.StartedAt != nil {
		merged.StartedAt = req.StartedAt.UTC()
	}
	if req.Notes != nil {
		merged.Notes = req.Notes
	}
	if req.Status != nil {
		merged.Status = *req.Status
	}
	if err := merged.Validate(); err != nil {
		return err
	}
	*b = merged
	return nil
}
