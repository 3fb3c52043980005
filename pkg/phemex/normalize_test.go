package phemex

import (
	"encoding/json"
	"testing"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		name string
		data string
		want float64
	}{
		{"scaled price", `{"lastEp":35000000}`, 3500},
		{"scaled price as string", `{"lastEp":"35000000"}`, 3500},
		{"plain price fallback", `{"lastPrice":"178.45"}`, 178.45},
		{"scaled wins over plain", `{"lastEp":10000,"lastPrice":"9"}`, 1},
		{"malformed scaled falls back", `{"lastEp":"abc","lastPrice":2.5}`, 2.5},
		{"missing", `{}`, 0},
		{"null data", `null`, 0},
		{"array data", `[{"lastEp":20000}]`, 2},
		{"not json", `oops`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTicker(json.RawMessage(tt.data)).LastPrice
			if got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeTrades(t *testing.T) {
	data := `{"rows":[
		{"transactTimeNs":1700000000123456789,"priceEp":"650000000","side":"BUY","feeAmount":5000000,"execFeeEv":"150000000"},
		{"transactTimeNs":"bad","priceEp":null,"side":"Sell"},
		{"side":"weird"}
	]}`

	trades := NormalizeTrades(json.RawMessage(data))
	if len(trades) != 3 {
		t.Fatalf("len got %d want 3", len(trades))
	}

	first := trades[0]
	if first.Timestamp != 1700000000123 {
		t.Errorf("timestamp got %d", first.Timestamp)
	}
	if first.Price != 65000 || first.Side != SideBuy || first.Fee != 0.05 || first.Profit != 1.5 {
		t.Errorf("first trade got %+v", first)
	}

	second := trades[1]
	if second.Timestamp != 0 || second.Price != 0 || second.Side != SideSell {
		t.Errorf("malformed trade got %+v", second)
	}
	if trades[2].Side != SideSell {
		t.Errorf("unknown side should map to sell, got %q", trades[2].Side)
	}
}

func TestNormalizeTradesShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{"bare array", `[{"priceEp":1},{"priceEp":2}]`, 2},
		{"empty rows", `{"rows":[]}`, 0},
		{"no rows key", `{"total":0}`, 0},
		{"null", `null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTrades(json.RawMessage(tt.data))
			if got == nil || len(got) != tt.want {
				t.Fatalf("got %v want %d trades", got, tt.want)
			}
		})
	}
}

func TestNormalizePnl(t *testing.T) {
	tests := []struct {
		data string
		want float64
	}{
		{`{"realisedPnl":"23456000000"}`, 234.56},
		{`{"realisedPnl":-4523000000}`, -45.23},
		{`{"realisedPnlEv":100000000}`, 1},
		{`{"realisedPnl":true}`, 0},
		{`{}`, 0},
	}
	for _, tt := range tests {
		if got := NormalizePnl(json.RawMessage(tt.data)).RealizedPnl; got != tt.want {
			t.Errorf("NormalizePnl(%s) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

func TestTotalFees(t *testing.T) {
	trades := make([]Trade, 10)
	for i := range trades {
		trades[i].Fee = 0.1
	}
	if got := TotalFees(trades); got != 1 {
		t.Fatalf("got %v want 1", got)
	}
	if got := TotalFees(nil); got != 0 {
		t.Fatalf("got %v want 0", got)
	}
}
