package fleet

import (
	"errors"
	"fmt"
	"math"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/util"
)

// LevelPrecision is the number of decimals every ladder level is rounded to
const LevelPrecision = 8

// minLevelGap is the narrowest spacing that survives rounding to LevelPrecision
const minLevelGap = 1e-8

// ErrInvalidConfig wraps configuration rejected before ladder generation
var ErrInvalidConfig = errors.New("invalid grid configuration")

// GenerateLevels returns count+1 ascending price levels from lower to upper.
// Callers must ensure count >= 1 and upper > lower > 0, and that adjacent levels are at least
// 1e-8 apart so rounding keeps them distinct; Levels and Preview check all of it.
func GenerateLevels(lower, upper float64, count int, kind model.GridType) []float64 {
	levels := make([]float64, 0, count+1)

	if kind == model.GridGeometric {
		ratio := math.Pow(upper/lower, 1/float64(count))
		for i := 0; i <= count; i++ {
			levels = append(levels, util.RoundToPrecision(lower*math.Pow(ratio, float64(i)), LevelPrecision))
		}
		return levels
	}

	step := (upper - lower) / float64(count)
	for i := 0; i <= count; i++ {
		levels = append(levels, util.RoundToPrecision(lower+step*float64(i), LevelPrecision))
	}
	return levels
}

// Levels validates bot and derives its ladder
func Levels(bot *model.GridBot) ([]float64, error) {
	if err := checkLadderInputs(bot.LowerLimit, bot.UpperLimit, bot.GridCount, bot.GridType); err != nil {
		return nil, err
	}
	return GenerateLevels(bot.LowerLimit, bot.UpperLimit, bot.GridCount, bot.GridType), nil
}

// Preview validates raw inputs and derives the ladder, for callers without a stored bot
func Preview(lower, upper float64, count int, kind model.GridType) ([]float64, error) {
	if kind == "" {
		kind = model.GridArithmetic
	}
	if err := checkLadderInputs(lower, upper, count, kind); err != nil {
		return nil, err
	}
	return GenerateLevels(lower, upper, count, kind), nil
}

func checkLadderInputs(lower, upper float64, count int, kind model.GridType) error {
	var verr *model.ValidationError
	switch {
	case count < 1:
		verr = &model.ValidationError{Field: "gridCount", Reason: "must be at least 1"}
	case !(lower > 0) || math.IsInf(lower, 0):
		verr = &model.ValidationError{Field: "lowerLimit", Reason: "must be greater than 0"}
	case !(upper > lower) || math.IsInf(upper, 0):
		verr = &model.ValidationError{Field: "upperLimit", Reason: "must be greater than lowerLimit"}
	case !kind.Valid():
		verr = &model.ValidationError{Field: "gridType", Reason: "must be arithmetic or geometric"}
	case narrowestGap(lower, upper, count, kind) < minLevelGap:
		verr = &model.ValidationError{Field: "gridCount", Reason: "too many levels for the price range"}
	default:
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, verr)
}

// narrowestGap is the smallest distance between adjacent levels before rounding.
// Geometric ladders are tightest at the bottom.
func narrowestGap(lower, upper float64, count int, kind model.GridType) float64 {
	if kind == model.GridGeometric {
		return lower * (math.Pow(upper/lower, 1/float64(count)) - 1)
	}
	return (upper - lower) / float64(count)
}
