package phemex

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Phemex encodes prices as Ep (x10^4), amounts as Ev (x10^8) and times in nanoseconds.
const (
	priceScale = -4
	valueScale = -8
	nanosToMs  = -6
)

// field names one raw key and the decimal shift that brings it to canonical units
type field struct {
	name  string
	shift int32
}

// Lookup tables, first present and parseable key wins.
var (
	tickerLastPrice = []field{{"lastEp", priceScale}, {"lastPrice", 0}}

	tradeTime   = []field{{"transactTimeNs", nanosToMs}}
	tradePrice  = []field{{"priceEp", priceScale}, {"execPriceEp", priceScale}}
	tradeFee    = []field{{"feeAmount", valueScale}}
	tradeProfit = []field{{"execFeeEv", valueScale}}

	pnlRealized = []field{{"realisedPnl", valueScale}, {"realisedPnlEv", valueScale}}

	orderPrice   = []field{{"priceEp", priceScale}}
	orderQty     = []field{{"baseQtyEv", valueScale}, {"qtyEv", valueScale}}
	orderCreated = []field{{"createTimeNs", nanosToMs}, {"actionTimeNs", nanosToMs}}
)

type record map[string]json.RawMessage

func (r record) value(fields []field) decimal.Decimal {
	for _, f := range fields {
		raw, ok := r[f.name]
		if !ok {
			continue
		}
		if d, ok := parseDecimal(raw); ok {
			return d.Shift(f.shift)
		}
	}
	return decimal.Zero
}

func (r record) float(fields []field) float64 {
	return r.value(fields).InexactFloat64()
}

func (r record) millis(fields []field) int64 {
	return r.value(fields).IntPart()
}

func (r record) text(name string) string {
	raw, ok := r[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if d, ok := parseDecimal(raw); ok {
		return d.String()
	}
	return ""
}

// parseDecimal accepts JSON numbers and numeric strings
func parseDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, false
		}
		text = strings.TrimSpace(text)
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// decodeObject reads data as a single object. An array yields its first element.
func decodeObject(data json.RawMessage) record {
	var obj record
	if err := json.Unmarshal(data, &obj); err == nil && obj != nil {
		return obj
	}
	var list []record
	if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return record{}
}

// decodeRows reads either {"rows": [...]} or a bare array
func decodeRows(data json.RawMessage) []record {
	var paged struct {
		Rows []record `json:"rows"`
	}
	if err := json.Unmarshal(data, &paged); err == nil && paged.Rows != nil {
		return paged.Rows
	}
	var list []record
	if err := json.Unmarshal(data, &list); err == nil {
		return list
	}
	return nil
}

// NormalizeTicker extracts the last traded price. Missing or malformed values become 0.
func NormalizeTicker(data json.RawMessage) Ticker {
	obj := decodeObject(data)
	return Ticker{
		Symbol:    obj.text("symbol"),
		LastPrice: obj.float(tickerLastPrice),
	}
}

// NormalizeTrades converts trade history rows in response order
func NormalizeTrades(data json.RawMessage) []Trade {
	rows := decodeRows(data)
	trades := make([]Trade, 0, len(rows))
	for _, row := range rows {
		trades = append(trades, normalizeTrade(row))
	}
	return trades
}

func normalizeTrade(row record) Trade {
	side := SideSell
	if strings.EqualFold(row.text("side"), SideBuy) {
		side = SideBuy
	}
	return Trade{
		Timestamp: row.millis(tradeTime),
		Price:     row.float(tradePrice),
		Side:      side,
		Fee:       row.float(tradeFee),
		Profit:    row.float(tradeProfit),
	}
}

// NormalizePnl extracts realized PnL
func NormalizePnl(data json.RawMessage) PnlSnapshot {
	return PnlSnapshot{RealizedPnl: decodeObject(data).float(pnlRealized)}
}

// NormalizeOrders converts active orders
func NormalizeOrders(data json.RawMessage) []Order {
	rows := decodeRows(data)
	if rows == nil {
		if obj := decodeObject(data); len(obj) > 0 {
			rows = []record{obj}
		}
	}

	orders := make([]Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, Order{
			OrderID:   row.text("orderID"),
			Symbol:    row.text("symbol"),
			Side:      strings.ToLower(row.text("side")),
			Price:     row.float(orderPrice),
			Quantity:  row.float(orderQty),
			Status:    row.text("ordStatus"),
			CreatedAt: row.millis(orderCreated),
		})
	}
	return orders
}

// TotalFees sums trade fees without accumulating float error
func TotalFees(trades []Trade) float64 {
	sum := decimal.Zero
	for _, t := range trades {
		sum = sum.Add(decimal.NewFromFloat(t.Fee))
	}
	return sum.InexactFloat64()
}
