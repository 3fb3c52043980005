package fleet

import (
	"math/rand"
	"sort"
	"time"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/util"
	"gridwatch/backend/pkg/phemex"
)

const (
	DefaultDemoSeed = 42

	demoHistoryPoints = 48
	demoArbitrages    = 12
	demoShareBase     = "https://phemex.com/trading-bots/share?referralCode=D7P5V5&type=SPOT_GRID&id="
)

type demoBot struct {
	id           string
	pair         string
	displayPair  string
	lower, upper float64
	gridCount    int
	gridType     model.GridType
	investment   float64

	currentPrice  float64
	entryPrice    float64
	arbitrages    int
	realizedPnl   float64
	unrealizedPnl float64
	runtimeMs     int64
	totalFees     float64
	shareID       string
}

var demoFleet = []demoBot{
	{
		id: "bot-1", pair: "BTCUSDT", displayPair: "BTC/USDT",
		lower: 62000, upper: 72000, gridCount: 20, gridType: model.GridArithmetic, investment: 5000,
		currentPrice: 67245.50, entryPrice: 65500, arbitrages: 47,
		realizedPnl: 234.56, unrealizedPnl: -45.23, runtimeMs: 1056720000, totalFees: 12.34,
		shareID: "7175119",
	},
	{
		id: "bot-2", pair: "ETHUSDT", displayPair: "ETH/USDT",
		lower: 3100, upper: 3800, gridCount: 15, gridType: model.GridGeometric, investment: 3000,
		currentPrice: 3456.78, entryPrice: 3350, arbitrages: 32,
		realizedPnl: 156.78, unrealizedPnl: 23.45, runtimeMs: 742320000, totalFees: 8.92,
		shareID: "7175120",
	},
	{
		id: "bot-3", pair: "SOLUSDT", displayPair: "SOL/USDT",
		lower: 150, upper: 200, gridCount: 10, gridType: model.GridArithmetic, investment: 1500,
		currentPrice: 178.45, entryPrice: 165, arbitrages: 28,
		realizedPnl: 89.12, unrealizedPnl: -12.34, runtimeMs: 553500000, totalFees: 4.56,
		shareID: "7175121",
	},
}

// Synthesizer produces the demo fleet. The same seed and clock give the same fleet.
type Synthesizer struct {
	seed int64
	now  func() time.Time
}

// NewSynthesizer creates a Synthesizer. A nil now uses time.Now.
func NewSynthesizer(seed int64, now func() time.Time) *Synthesizer {
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{seed: seed, now: now}
}

// DemoBots returns the configurations behind the demo fleet, started runtime ago from now
func DemoBots(now time.Time) []model.GridBot {
	bots := make([]model.GridBot, 0, len(demoFleet))
	for _, d := range demoFleet {
		bots = append(bots, d.config(now))
	}
	return bots
}

func (d demoBot) config(now time.Time) model.GridBot {
	return model.GridBot{
		ID:          d.id,
		Pair:        d.pair,
		DisplayPair: d.displayPair,
		UpperLimit:  d.upper,
		LowerLimit:  d.lower,
		GridCount:   d.gridCount,
		GridType:    d.gridType,
		Investment:  d.investment,
		StartedAt:   now.Add(-time.Duration(d.runtimeMs) * time.Millisecond).UTC(),
		Status:      model.BotStatusActive,
	}
}

// Fleet builds a fresh demo fleet
func (s *Synthesizer) Fleet() []model.BotState {
	rng := rand.New(rand.NewSource(s.seed))
	now := s.now()

	states := make([]model.BotState, 0, len(demoFleet))
	for _, d := range demoFleet {
		cfg := d.config(now)
		levels := GenerateLevels(d.lower, d.upper, d.gridCount, d.gridType)

		state := model.NewBotState(&cfg)
		state.CurrentPrice = d.currentPrice
		state.EntryPrice = d.entryPrice
		state.RealizedPnl = d.realizedPnl
		state.UnrealizedPnl = d.unrealizedPnl
		state.TotalArbitrages = d.arbitrages
		state.TotalFees = d.totalFees
		state.RuntimeMs = d.runtimeMs
		state.Runtime = FormatRuntime(d.runtimeMs)
		state.ROI = ComputeROI(d.realizedPnl, d.unrealizedPnl, d.investment)
		state.APR = ComputeAPR(state.ROI, d.runtimeMs)
		state.GridLevels = levels
		state.PriceHistory = demoPriceHistory(rng, now, d.currentPrice, d.lower, d.upper)
		state.Arbitrages = demoArbitrageEvents(rng, now, levels, d.currentPrice)
		state.ShareLink = demoShareBase + d.shareID

		states = append(states, state)
	}
	return states
}

// demoPriceHistory walks hourly samples around the middle of the range, then appends the current price
func demoPriceHistory(rng *rand.Rand, now time.Time, current, lower, upper float64) []model.PricePoint {
	span := upper - lower
	mid := (upper + lower) / 2
	nowMs := now.UnixMilli()

	history := make([]model.PricePoint, 0, demoHistoryPoints+1)
	for i := demoHistoryPoints - 1; i >= 0; i-- {
		offset := (rng.Float64() - 0.5) * span * 0.3
		history = append(history, model.PricePoint{
			Timestamp: nowMs - int64(i)*msPerHour,
			Price:     util.Clamp(mid+offset, lower, upper),
		})
	}
	return append(history, model.PricePoint{Timestamp: nowMs, Price: current})
}

// demoArbitrageEvents places fills exactly on ladder levels within the last two days
func demoArbitrageEvents(rng *rand.Rand, now time.Time, levels []float64, current float64) []model.Arbitrage {
	nowMs := now.UnixMilli()
	events := make([]model.Arbitrage, 0, demoArbitrages)
	for i := 0; i < demoArbitrages; i++ {
		ts := nowMs - int64(rng.Float64()*float64(2*msPerDay))
		level := levels[rng.Intn(len(levels)-1)]
		side := phemex.SideSell
		if level < current {
			side = phemex.SideBuy
		}
		events = append(events, model.Arbitrage{
			Timestamp: ts,
			Price:     level,
			Side:      side,
			Profit:    rng.Float64()*10 + 2,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	return events
}
