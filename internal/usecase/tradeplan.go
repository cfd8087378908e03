package usecase

import (
	"fmt"
	"math"
	"sort"

	"advisor-backend/internal/domain"
	"advisor-backend/internal/infrastructure/indicators"
)

const (
	pivotBars     = 15
	levelLookback = 300
	maxLevels     = 3
)

// FindLevels extracts up to three support and resistance levels from
// confirmed pivots in the recent window, with ATH/ATL fallbacks when
// no pivot sits on the needed side of the price.
func FindLevels(candles []domain.Candle, price float64) (supports, resistances []domain.Level) {
	if len(candles) < 50 {
		return nil, nil
	}

	window := candles
	if len(window) > levelLookback {
		window = window[len(window)-levelLookback:]
	}
	highs := domain.Highs(window)
	lows := domain.Lows(window)

	pivotHighs := indicators.FindPivotHighs(highs, pivotBars, pivotBars)
	pivotLows := indicators.FindPivotLows(lows, pivotBars, pivotBars)

	for _, p := range uniqueSorted(pivotHighs, true) {
		if p > price && len(resistances) < maxLevels {
			resistances = append(resistances, domain.Level{Price: p, Kind: "PIVOT"})
		}
	}
	for _, p := range uniqueSorted(pivotLows, false) {
		if p < price && len(supports) < maxLevels {
			supports = append(supports, domain.Level{Price: p, Kind: "PIVOT"})
		}
	}

	if len(resistances) == 0 {
		if high := extremum(highs, 20, true); high > price {
			resistances = append(resistances, domain.Level{Price: high, Kind: "ATH/MAX"})
		}
	}
	if len(supports) == 0 {
		if low := extremum(lows, 20, false); low < price && low > 0 {
			supports = append(supports, domain.Level{Price: low, Kind: "ATL/MIN"})
		}
	}

	return supports, resistances
}

// BuildTradePlan derives the stop and laddered take-profits from
// market structure, constrained by the policy's maximum stop distance
// and current volatility.
func BuildTradePlan(direction domain.Action, price float64, candles []domain.Candle, atr float64, policy domain.Policy) domain.TradePlan {
	if atr == 0 {
		atr = price * 0.02
	}
	supports, resistances := FindLevels(candles, price)

	plan := domain.TradePlan{
		Direction:   direction,
		Entry:       roundPrice(price, policy.Class),
		ATR:         atr,
		Supports:    supports,
		Resistances: resistances,
	}

	ema50 := 0.0
	if closes := domain.Closes(candles); len(closes) >= 50 {
		ema50 = last(indicators.CalculateEMA(closes, 50))
	}

	if direction == domain.ActionSell {
		buildShortLegs(&plan, price, atr, supports, resistances, policy)
	} else {
		buildLongLegs(&plan, price, atr, ema50, supports, resistances, policy)
	}

	risk := math.Abs(plan.Entry - plan.StopLoss.Price)
	if risk > 0 {
		plan.RiskReward = domain.RiskReward{
			TP1: round2(math.Abs(plan.TP1.Price-plan.Entry) / risk),
			TP2: round2(math.Abs(plan.TP2.Price-plan.Entry) / risk),
			TP3: round2(math.Abs(plan.TP3.Price-plan.Entry) / risk),
		}
	}
	return plan
}

func buildLongLegs(plan *domain.TradePlan, price, atr, ema50 float64, supports, resistances []domain.Level, policy domain.Policy) {
	sl := 0.0
	slReason := "Structure (Pivot)"
	if len(supports) > 0 {
		sl = supports[0].Price
	}

	// A nearby rising EMA50 makes a tighter dynamic stop.
	if ema50 > 0 && price > ema50 && (price-ema50)/price < 0.05 {
		sl = ema50
		slReason = "Dynamic (EMA50)"
	}

	// Only when structure gives no stop, or a stop wider than the
	// policy allows, fall back to the max-risk clamp, tightened by
	// volatility when 2x ATR sits inside it.
	maxRiskFloor := price * (1 - policy.MaxStopLossPct)
	if sl == 0 || sl < maxRiskFloor {
		sl = maxRiskFloor
		slReason = fmt.Sprintf("Max Risk (%.0f%%)", policy.MaxStopLossPct*100)
		if volFloor := price - 2*atr; volFloor > sl {
			sl = volFloor
			slReason = "Volatility (2x ATR)"
		}
	}

	risk := price - sl

	tp1 := price + 1.5*risk
	tp1Reason := "Risk 1.5x"
	if len(resistances) > 0 && resistances[0].Price > price+risk {
		if resistances[0].Price > tp1 {
			tp1 = resistances[0].Price
			tp1Reason = "Resistance (Pivot)"
		}
	}

	// The second target never drops below 3R, structure or not.
	tp2 := price + 3*risk
	tp2Reason := "Risk 3.0x"
	if len(resistances) > 1 && resistances[1].Price > tp2 {
		tp2 = resistances[1].Price
		tp2Reason = "Resistance (Pivot)"
	}

	tp3 := price + 5*risk

	plan.StopLoss = target(sl, price, slReason, policy.Class)
	plan.TP1 = target(tp1, price, tp1Reason, policy.Class)
	plan.TP2 = target(tp2, price, tp2Reason, policy.Class)
	plan.TP3 = target(tp3, price, "Risk 5.0x", policy.Class)
}

func buildShortLegs(plan *domain.TradePlan, price, atr float64, supports, resistances []domain.Level, policy domain.Policy) {
	sl := 0.0
	slReason := "Structure (Pivot)"
	if len(resistances) > 0 {
		sl = resistances[0].Price
	}

	maxRiskCeil := price * (1 + policy.MaxStopLossPct)
	if sl == 0 || sl > maxRiskCeil {
		sl = maxRiskCeil
		slReason = fmt.Sprintf("Max Risk (%.0f%%)", policy.MaxStopLossPct*100)
		if volCeil := price + 2*atr; volCeil < sl {
			sl = volCeil
			slReason = "Volatility (2x ATR)"
		}
	}

	risk := sl - price

	tp1 := price - 1.5*risk
	tp1Reason := "Risk 1.5x"
	if len(supports) > 0 && supports[0].Price < price-risk {
		if supports[0].Price < tp1 {
			tp1 = supports[0].Price
			tp1Reason = "Support (Pivot)"
		}
	}

	tp2 := price - 3*risk
	tp2Reason := "Risk 3.0x"
	if len(supports) > 1 && supports[1].Price < tp2 {
		tp2 = supports[1].Price
		tp2Reason = "Support (Pivot)"
	}

	tp3 := price - 5*risk

	plan.StopLoss = target(sl, price, slReason, policy.Class)
	plan.TP1 = target(tp1, price, tp1Reason, policy.Class)
	plan.TP2 = target(tp2, price, tp2Reason, policy.Class)
	plan.TP3 = target(tp3, price, "Risk 5.0x", policy.Class)
}

func target(price, entry float64, reason string, class domain.AssetClass) domain.PriceTarget {
	rounded := roundPrice(price, class)
	return domain.PriceTarget{
		Price:   rounded,
		Percent: round2((rounded - entry) / entry * 100),
		Reason:  reason,
	}
}

// uniqueSorted deduplicates pivot prices. Ascending for resistances
// (nearest above first), descending for supports (nearest below
// first).
func uniqueSorted(prices []float64, ascending bool) []float64 {
	seen := make(map[float64]struct{}, len(prices))
	var out []float64
	for _, p := range prices {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Float64s(out)
	if !ascending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func extremum(vals []float64, lookback int, highest bool) float64 {
	if len(vals) == 0 {
		return 0
	}
	start := len(vals) - lookback
	if start < 0 {
		start = 0
	}
	best := vals[start]
	for _, v := range vals[start+1:] {
		if highest && v > best || !highest && v < best {
			best = v
		}
	}
	return best
}
