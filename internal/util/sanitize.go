package util

import (
	"gridwatch/backend/pkg/logger"
)

// SanitizeFigure guards a reconstructed figure against corrupt values.
// NaN and infinities collapse to 0 and are logged with the field name.
func SanitizeFigure(val float64, field string, log *logger.Logger) float64 {
	if IsFinite(val) {
		return val
	}
	if log != nil {
		log.Warnf("%s was not a finite number (%v), resetting to 0", field, val)
	}
	return 0
}

// SanitizeNonNegative additionally resets negative values, used for prices and fees
func SanitizeNonNegative(val float64, field string, log *logger.Logger) float64 {
	val = SanitizeFigure(val, field, log)
	if val < 0 {
		if log != nil {
			log.Warnf("%s was negative (%.8f), resetting to 0", field, val)
		}
		return 0
	}
	return val
}
