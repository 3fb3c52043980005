package fleet

import (
	"context"
	"errors"
	"sync"
	"time"

	"gridwatch/backend/pkg/phemex"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// fakeExchange serves canned responses per symbol
type fakeExchange struct {
	mu sync.Mutex

	validateErr   error
	validatePanic bool

	tickers   map[string]phemex.Ticker
	trades    map[string][]phemex.Trade
	pnls      map[string]phemex.PnlSnapshot
	tickerErr error
	tradesErr error
	pnlErr    error
	panicOn   string // symbol whose ticker request panics

	calls map[string]int
}

func newFakeExchange() *fakeExchange {
	return &fakeExchange{
		tickers: map[string]phemex.Ticker{},
		trades:  map[string][]phemex.Trade{},
		pnls:    map[string]phemex.PnlSnapshot{},
		calls:   map[string]int{},
	}
}

func (f *fakeExchange) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeExchange) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeExchange) ValidateCredentials(ctx context.Context, creds phemex.Credentials) error {
	f.record("validate")
	if f.validatePanic {
		panic("validator exploded")
	}
	return f.validateErr
}

func (f *fakeExchange) GetSpotTicker(ctx context.Context, creds phemex.Credentials, symbol string) (phemex.Ticker, error) {
	f.record("ticker")
	if symbol == f.panicOn {
		panic("ticker exploded")
	}
	if f.tickerErr != nil {
		return phemex.Ticker{}, f.tickerErr
	}
	return f.tickers[symbol], nil
}

func (f *fakeExchange) GetTradeHistory(ctx context.Context, creds phemex.Credentials, symbol string) ([]phemex.Trade, error) {
	f.record("trades")
	if f.tradesErr != nil {
		return nil, f.tradesErr
	}
	return f.trades[symbol], nil
}

func (f *fakeExchange) GetSpotPnl(ctx context.Context, creds phemex.Credentials, symbol string) (phemex.PnlSnapshot, error) {
	f.record("pnl")
	if f.pnlErr != nil {
		return phemex.PnlSnapshot{}, f.pnlErr
	}
	return f.pnls[symbol], nil
}

var errBoom = errors.New("boom")

var testCreds = phemex.Credentials{APIKey: "key", APISecret: "secret"}
