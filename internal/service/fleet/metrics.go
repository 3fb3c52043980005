package fleet

import (
	"fmt"
	"time"
)

const (
	msPerMinute = int64(time.Minute / time.Millisecond)
	msPerHour   = int64(time.Hour / time.Millisecond)
	msPerDay    = 24 * msPerHour
)

// FormatRuntime renders a duration in ms as "{d}d {h}h {m}m", truncating each unit
func FormatRuntime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	days := ms / msPerDay
	hours := (ms % msPerDay) / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// ComputeROI is total PnL as a percentage of investment, 0 without investment
func ComputeROI(realizedPnl, unrealizedPnl, investment float64) float64 {
	if investment <= 0 {
		return 0
	}
	return (realizedPnl + unrealizedPnl) / investment * 100
}

// ComputeAPR annualizes roi over the runtime, 0 for a zero runtime
func ComputeAPR(roi float64, runtimeMs int64) float64 {
	runtimeDays := float64(runtimeMs) / float64(msPerDay)
	if runtimeDays <= 0 {
		return 0
	}
	return roi / runtimeDays * 365
}
