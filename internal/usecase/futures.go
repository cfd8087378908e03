package usecase

import (
	"fmt"
	"math"

	"advisor-backend/internal/domain"
)

const (
	defaultLeverage     = 5.0
	maxLeverage         = 20.0
	futuresMarginShare  = 0.1
	maintenanceRate     = 0.005
	takerFeeRate        = 0.0004
	fundingRatePerCycle = 0.0001
)

// BuildFuturesPlan projects a trade plan onto an isolated-margin
// perpetual position: a tenth of capital as margin, capped leverage,
// and the exchange-style liquidation estimate.
func BuildFuturesPlan(plan domain.TradePlan, capital, leverage float64) *domain.FuturesPlan {
	if plan.Entry <= 0 || capital <= 0 {
		return nil
	}
	if leverage <= 0 {
		leverage = defaultLeverage
	}
	if leverage > maxLeverage {
		leverage = maxLeverage
	}

	side := "LONG"
	if plan.Direction == domain.ActionSell {
		side = "SHORT"
	}

	entry := plan.Entry
	margin := capital * futuresMarginShare
	notional := margin * leverage
	qty := notional / entry

	var liq float64
	if side == "LONG" {
		liq = entry * (1 - 1/leverage + maintenanceRate)
	} else {
		liq = entry * (1 + 1/leverage - maintenanceRate)
	}

	sl := plan.StopLoss.Price
	slDist := math.Abs(entry - sl)
	slLoss := qty * slDist
	slROE := slDist / entry * leverage * 100

	openFee := notional * takerFeeRate
	closeFee := notional * takerFeeRate
	totalFees := openFee + closeFee

	fp := &domain.FuturesPlan{
		Side:                side,
		Leverage:            leverage,
		Margin:              round2(margin),
		MaintenanceRate:     maintenanceRate,
		NotionalValue:       round2(notional),
		Quantity:            round8(qty),
		EntryPrice:          entry,
		LiquidationPrice:    roundPrice(liq, domain.AssetCrypto),
		LiquidationDistance: round2(math.Abs(entry-liq) / entry * 100),
		SLPrice:             sl,
		SLPercent:           round2(slDist / entry * 100),
		SLLoss:              round2(slLoss),
		SLLossOfCapital:     round2(slLoss / capital * 100),
		EffectiveRiskROE:    round2(slROE),
		OpenFee:             round4(openFee),
		CloseFee:            round4(closeFee),
		TotalFees:           round4(totalFees),
		FundingPerInterval:  round4(notional * fundingRatePerCycle),
	}

	if tp := plan.TP1.Price; tp > 0 {
		diff := math.Abs(tp - entry)
		fp.Target = &domain.FuturesTarget{
			Price: tp,
			PnL:   round2(qty * diff),
			ROE:   round2(diff / entry * leverage * 100),
		}
	}

	if side == "LONG" && sl > 0 && sl <= liq {
		fp.SLBeyondLiquidation = true
	} else if side == "SHORT" && sl >= liq {
		fp.SLBeyondLiquidation = true
	}
	if fp.SLBeyondLiquidation {
		fp.Warnings = append(fp.Warnings, "Stop sits beyond the liquidation price, position would be liquidated first")
	}
	if slLoss > capital*0.05 {
		fp.Warnings = append(fp.Warnings, "Stop loss exceeds 5% of total capital")
	}
	if leverage > 10 {
		fp.Warnings = append(fp.Warnings, fmt.Sprintf("High leverage (%.0fx)", leverage))
	}
	if totalFees > margin*0.02 {
		fp.Warnings = append(fp.Warnings, "Round-trip fees exceed 2% of margin")
	}

	return fp
}
