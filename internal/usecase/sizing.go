package usecase

import (
	"fmt"
	"math"

	"advisor-backend/internal/domain"
)

// Score thresholds scaling position size up with conviction.
func sizeMultiplier(score float64) float64 {
	abs := math.Abs(score)
	switch {
	case abs >= 80:
		return 1.0
	case abs >= 60:
		return 0.75
	case abs >= 40:
		return 0.5
	}
	return 0.25
}

// SizePosition turns a trade plan into a concrete position: risk a
// fixed fraction of capital per trade, scale by conviction, and cap
// the position value at the policy limit.
func SizePosition(plan domain.TradePlan, score, capital float64, policy domain.Policy) domain.PositionPlan {
	pp := domain.PositionPlan{Multiplier: sizeMultiplier(score)}

	entry := plan.Entry
	sl := plan.StopLoss.Price
	if entry <= 0 || sl <= 0 {
		pp.Reason = "Stop loss not defined"
		return pp
	}

	validSignal := plan.Direction == domain.ActionBuy ||
		(policy.AllowShort && plan.Direction == domain.ActionSell)

	slPct := math.Abs(plan.StopLoss.Percent)
	tpPct := math.Abs(plan.TP1.Percent)
	pp.SLPercent = slPct
	pp.TPPercent = tpPct
	if slPct > 0 {
		pp.RiskRewardRatio = round2(tpPct / slPct)
	}

	riskPerUnit := math.Abs(entry - sl)
	if riskPerUnit == 0 {
		pp.Reason = "Stop loss equals entry"
		return pp
	}

	maxLoss := capital * policy.MaxRiskPerTrade
	rawUnits := maxLoss / riskPerUnit

	if policy.LotSize > 0 {
		rawLots := math.Floor(rawUnits / policy.LotSize)
		lots := math.Floor(rawLots * pp.Multiplier)
		if lots < 1 && rawLots >= 1 {
			lots = 1
		}
		pp.Lots = lots
		pp.Units = lots * policy.LotSize
	} else {
		pp.Units = round8(rawUnits * pp.Multiplier)
		pp.Lots = pp.Units
	}

	pp.PositionValue = positionValue(pp.Units, entry, policy.Class)

	// Hard cap on deployed capital per position. Lot-based assets keep a
	// single-lot floor so small accounts still get a plan.
	maxPosition := capital * policy.MaxPositionPct
	if pp.PositionValue > maxPosition {
		if policy.LotSize > 0 {
			lots := math.Floor(maxPosition / (entry * policy.LotSize))
			if lots < 1 {
				lots = 1
			}
			pp.Lots = lots
			pp.Units = lots * policy.LotSize
		} else {
			pp.Units = round8(maxPosition / entry)
			pp.Lots = pp.Units
		}
		pp.PositionValue = positionValue(pp.Units, entry, policy.Class)
		pp.Warnings = append(pp.Warnings, fmt.Sprintf(
			"Position capped at %.0f%% of capital", policy.MaxPositionPct*100,
		))
	}

	pp.RiskAmount = round2(pp.Units * riskPerUnit)
	if capital > 0 {
		pp.RiskPercent = round2(pp.RiskAmount / capital * 100)
	}
	pp.PotentialProfit = round2(pp.Units * math.Abs(plan.TP1.Price-entry))

	if !validSignal {
		pp.Warnings = append(pp.Warnings, "Signal not tradable for this asset class")
	}
	if tpPct <= slPct {
		pp.Warnings = append(pp.Warnings, "First target does not clear the stop distance")
	}
	if pp.RiskAmount > maxLoss*0.9 {
		pp.Warnings = append(pp.Warnings, "Risk close to the per-trade limit")
	}
	if pp.RiskRewardRatio > 0 && pp.RiskRewardRatio < 1.5 {
		pp.Warnings = append(pp.Warnings, "Risk/reward below 1.5")
	}

	pp.Valid = validSignal && tpPct > slPct && pp.Units > 0
	if !pp.Valid && pp.Reason == "" {
		switch {
		case !validSignal:
			pp.Reason = "Signal not tradable for this asset class"
		case tpPct <= slPct:
			pp.Reason = "Unfavorable risk/reward"
		default:
			pp.Reason = "Capital too small for one lot"
		}
	}
	return pp
}

func positionValue(units, entry float64, class domain.AssetClass) float64 {
	if class == domain.AssetCrypto {
		return round4(units * entry)
	}
	return math.Round(units * entry)
}
