package phemex

import (
	"context"
	"encoding/json"
	"net/http"
)

const (
	PathSpotWallets  = "/spot/wallets"
	PathSpotTicker   = "/spot/ticker/24hr"
	PathActiveOrders = "/spot/orders/active"
	PathTradeHistory = "/exchange/spot/order/trades"
	PathSpotPnl      = "/api-data/spot/pnl"
)

// GetSpotWallets lists spot wallet balances as returned by the exchange
func (c *Client) GetSpotWallets(ctx context.Context, creds Credentials) (json.RawMessage, error) {
	return c.Do(ctx, creds, http.MethodGet, PathSpotWallets, nil, nil)
}

// ValidateCredentials checks the pair with one wallet query. Any failure means unusable.
func (c *Client) ValidateCredentials(ctx context.Context, creds Credentials) error {
	if creds.IsZero() {
		return errMissingCredentials
	}
	_, err := c.GetSpotWallets(ctx, creds)
	return err
}

// GetSpotTicker fetches the 24h ticker for symbol
func (c *Client) GetSpotTicker(ctx context.Context, creds Credentials, symbol string) (Ticker, error) {
	data, err := c.Do(ctx, creds, http.MethodGet, PathSpotTicker, symbolParam(symbol), nil)
	if err != nil {
		return Ticker{}, err
	}
	t := NormalizeTicker(data)
	if t.Symbol == "" {
		t.Symbol = symbol
	}
	return t, nil
}

// GetOpenOrders lists active orders for symbol
func (c *Client) GetOpenOrders(ctx context.Context, creds Credentials, symbol string) ([]Order, error) {
	data, err := c.Do(ctx, creds, http.MethodGet, PathActiveOrders, symbolParam(symbol), nil)
	if err != nil {
		return nil, err
	}
	return NormalizeOrders(data), nil
}

// GetTradeHistory fetches the account's fills for symbol
func (c *Client) GetTradeHistory(ctx context.Context, creds Credentials, symbol string) ([]Trade, error) {
	data, err := c.Do(ctx, creds, http.MethodGet, PathTradeHistory, symbolParam(symbol), nil)
	if err != nil {
		return nil, err
	}
	return NormalizeTrades(data), nil
}

// GetSpotPnl fetches realized PnL for symbol
func (c *Client) GetSpotPnl(ctx context.Context, creds Credentials, symbol string) (PnlSnapshot, error) {
	data, err := c.Do(ctx, creds, http.MethodGet, PathSpotPnl, symbolParam(symbol), nil)
	if err != nil {
		return PnlSnapshot{}, err
	}
	return NormalizePnl(data), nil
}

func symbolParam(symbol string) []Param {
	return []Param{{Key: "symbol", Value: symbol}}
}
