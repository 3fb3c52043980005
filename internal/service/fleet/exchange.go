package fleet

import (
	"context"

	"gridwatch/backend/pkg/phemex"
)

// Exchange is the read-only surface reconstruction needs. *phemex.Client satisfies it.
type Exchange interface {
	ValidateCredentials(ctx context.Context, creds phemex.Credentials) error
	GetSpotTicker(ctx context.Context, creds phemex.Credentials, symbol string) (phemex.Ticker, error)
	GetTradeHistory(ctx context.Context, creds phemex.Credentials, symbol string) ([]phemex.Trade, error)
	GetSpotPnl(ctx context.Context, creds phemex.Credentials, symbol string) (phemex.PnlSnapshot, error)
}

var _ Exchange = (*phemex.Client)(nil)
