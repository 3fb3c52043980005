package model

// FleetMode tags whether a fleet result came from the exchange or the synthesizer
type FleetMode string

const (
	FleetModeLive FleetMode = "live"
	FleetModeDemo FleetMode = "demo"
)

// Diagnostic messages attached to fleet results
const (
	MessageNoCredentials    = "Demo mode - configure API keys in settings for live data"
	MessageValidationFailed = "API key validation failed - showing demo data"
	MessageNoBots           = "No bots configured - add your first bot on the Bots page"
	MessageFleetError       = "Error fetching data - showing demo data"
)

// FleetResult is what a dashboard fetch returns
type FleetResult struct {
	Mode    FleetMode  `json:"mode"`
	Bots    []BotState `json:"bots"`
	Message string     `json:"message,omitempty"`
}

// IsDemo reports whether the bots are synthetic
func (r *FleetResult) IsDemo() bool {
	return r.Mode == FleetModeDemo
}

// LadderPreview is the response for a ladder preview request
type LadderPreview struct {
	BotID     string    `json:"botId,omitempty"`
	Lower     float64   `json:"lowerLimit"`
	Upper     float64   `json:"upperLimit"`
	GridCount int       `json:"gridCount"`
	GridType  GridType  `json:"gridType"`
	Levels    []float64 `json:"levels"`
}

// LadderPreviewRequest asks for a ladder without storing a bot
type LadderPreviewRequest struct {
	LowerLimit float64  `json:"lowerLimit" binding:"required,gt=0"`
	UpperLimit float64  `json:"upperLimit" binding:"required,gt=0"`
	GridCount  int      `json:"gridCount" binding:"required,min=1"`
	GridType   GridType `json:"gridType" binding:"omitempty,oneof=arithmetic geometric"`
}
