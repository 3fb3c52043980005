package fleet

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/util"
	"gridwatch/backend/pkg/logger"
	"gridwatch/backend/pkg/phemex"
)

const (
	// ArbitrageWindow is how many recent fills a bot state lists
	ArbitrageWindow = 20
	// PriceHistoryWindow is how many recent fills feed the price chart
	PriceHistoryWindow = 48
)

// Reconstructor rebuilds one bot's live state from exchange data
type Reconstructor struct {
	exchange Exchange
	now      func() time.Time
	log      *logger.Logger
}

// NewReconstructor creates a Reconstructor. A nil now uses time.Now.
func NewReconstructor(exchange Exchange, now func() time.Time) *Reconstructor {
	if now == nil {
		now = time.Now
	}
	return &Reconstructor{
		exchange: exchange,
		now:      now,
		log:      logger.GetLogger().Component("reconstructor"),
	}
}

// Reconstruct fetches ticker, trades and PnL concurrently and combines them with bot.
// It never fails: a failed sub-request leaves its fields at zero, and an invalid
// configuration yields a placeholder.
func (r *Reconstructor) Reconstruct(ctx context.Context, creds phemex.Credentials, bot *model.GridBot) model.BotState {
	levels, err := Levels(bot)
	if err != nil {
		r.log.WithFields(map[string]interface{}{
			"bot_id": bot.ID,
			"pair":   bot.Pair,
		}).Warnf("skipping reconstruction: %v", err)
		return Placeholder(bot)
	}

	var (
		ticker    phemex.Ticker
		trades    []phemex.Trade
		pnl       phemex.PnlSnapshot
		tickerErr error
	)

	// Sub-request errors are absorbed, so the group never cancels its siblings.
	var g errgroup.Group
	g.Go(func() error {
		tickerErr = guard(func() (err error) {
			ticker, err = r.exchange.GetSpotTicker(ctx, creds, bot.Pair)
			return err
		})
		r.logFailure(bot, phemex.PathSpotTicker, tickerErr)
		return nil
	})
	g.Go(func() error {
		err := guard(func() (err error) {
			trades, err = r.exchange.GetTradeHistory(ctx, creds, bot.Pair)
			return err
		})
		if err != nil {
			trades = nil
		}
		r.logFailure(bot, phemex.PathTradeHistory, err)
		return nil
	})
	g.Go(func() error {
		err := guard(func() (err error) {
			pnl, err = r.exchange.GetSpotPnl(ctx, creds, bot.Pair)
			return err
		})
		if err != nil {
			pnl = phemex.PnlSnapshot{}
		}
		r.logFailure(bot, phemex.PathSpotPnl, err)
		return nil
	})
	_ = g.Wait()

	now := r.now()
	state := model.NewBotState(bot)
	state.GridLevels = levels

	if tickerErr == nil {
		state.CurrentPrice = util.SanitizeNonNegative(ticker.LastPrice, "currentPrice", r.log)
	}
	state.RealizedPnl = util.SanitizeFigure(pnl.RealizedPnl, "realizedPnl", r.log)
	state.UnrealizedPnl = 0

	scoped := ScopeTrades(trades, bot.StartedAt)
	state.TotalArbitrages = len(scoped) / 2
	state.TotalFees = util.SanitizeNonNegative(phemex.TotalFees(scoped), "totalFees", r.log)

	for _, t := range tail(scoped, ArbitrageWindow) {
		state.Arbitrages = append(state.Arbitrages, model.Arbitrage{
			Timestamp: t.Timestamp,
			Price:     t.Price,
			Side:      t.Side,
			Profit:    t.Profit,
		})
	}
	for _, t := range tail(scoped, PriceHistoryWindow) {
		state.PriceHistory = append(state.PriceHistory, model.PricePoint{Timestamp: t.Timestamp, Price: t.Price})
	}
	if state.CurrentPrice > 0 {
		state.PriceHistory = append(state.PriceHistory, model.PricePoint{
			Timestamp: now.UnixMilli(),
			Price:     state.CurrentPrice,
		})
	}

	state.RuntimeMs = runtimeMs(bot.StartedAt, now)
	state.Runtime = FormatRuntime(state.RuntimeMs)
	state.ROI = ComputeROI(state.RealizedPnl, state.UnrealizedPnl, bot.Investment)
	state.APR = ComputeAPR(state.ROI, state.RuntimeMs)

	return state
}

func (r *Reconstructor) logFailure(bot *model.GridBot, endpoint string, err error) {
	if err == nil {
		return
	}
	r.log.WithFields(map[string]interface{}{
		"bot_id":   bot.ID,
		"pair":     bot.Pair,
		"endpoint": endpoint,
	}).Warnf("sub-request failed: %v", err)
}

// ScopeTrades keeps fills at or after startedAt, ordered oldest first.
// The input slice is not modified.
func ScopeTrades(trades []phemex.Trade, startedAt time.Time) []phemex.Trade {
	start := startedAt.UnixMilli()
	scoped := make([]phemex.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Timestamp >= start {
			scoped = append(scoped, t)
		}
	}
	sort.SliceStable(scoped, func(i, j int) bool {
		return scoped[i].Timestamp < scoped[j].Timestamp
	})
	return scoped
}

func tail(trades []phemex.Trade, n int) []phemex.Trade {
	if len(trades) > n {
		return trades[len(trades)-n:]
	}
	return trades
}

func runtimeMs(startedAt, now time.Time) int64 {
	ms := now.Sub(startedAt).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// Placeholder is the zero-filled state shown for a bot whose reconstruction could not run
func Placeholder(bot *model.GridBot) model.BotState {
	state := model.NewBotState(bot)
	state.Runtime = FormatRuntime(0)
	return state
}
