package usecase

import (
	"strings"
	"testing"

	"advisor-backend/internal/domain"
)

func TestBuildFuturesPlanLong(t *testing.T) {
	plan := longPlan(100, 96, 106)

	fp := BuildFuturesPlan(plan, 1000, 5)
	if fp == nil {
		t.Fatal("got nil plan")
	}
	if fp.Side != "LONG" || !almostEqual(fp.Leverage, 5) {
		t.Errorf("side/leverage = %s/%v", fp.Side, fp.Leverage)
	}
	if !almostEqual(fp.Margin, 100) || !almostEqual(fp.NotionalValue, 500) || !almostEqual(fp.Quantity, 5) {
		t.Errorf("margin/notional/qty = %v/%v/%v, want 100/500/5", fp.Margin, fp.NotionalValue, fp.Quantity)
	}
	if !almostEqual(fp.LiquidationPrice, 80.5) {
		t.Errorf("liquidation = %v, want 80.5", fp.LiquidationPrice)
	}
	if !almostEqual(fp.SLLoss, 20) || !almostEqual(fp.SLLossOfCapital, 2) || !almostEqual(fp.EffectiveRiskROE, 20) {
		t.Errorf("sl loss/capital/roe = %v/%v/%v, want 20/2/20", fp.SLLoss, fp.SLLossOfCapital, fp.EffectiveRiskROE)
	}
	if !almostEqual(fp.OpenFee, 0.2) || !almostEqual(fp.TotalFees, 0.4) {
		t.Errorf("fees = %v/%v, want 0.2/0.4", fp.OpenFee, fp.TotalFees)
	}
	if fp.Target == nil || !almostEqual(fp.Target.PnL, 30) || !almostEqual(fp.Target.ROE, 30) {
		t.Errorf("target = %+v, want 30 PnL at 30%% ROE", fp.Target)
	}
	if fp.SLBeyondLiquidation || len(fp.Warnings) != 0 {
		t.Errorf("warnings = %v, want a clean plan", fp.Warnings)
	}
}

func TestBuildFuturesPlanClampsLeverage(t *testing.T) {
	plan := longPlan(100, 96, 106)

	fp := BuildFuturesPlan(plan, 1000, 25)
	if !almostEqual(fp.Leverage, 20) {
		t.Errorf("leverage = %v, want clamped to 20", fp.Leverage)
	}
	if !hasWarning(fp.Warnings, "High leverage") {
		t.Errorf("warnings = %v, want a high leverage note", fp.Warnings)
	}
}

func TestBuildFuturesPlanStopBeyondLiquidation(t *testing.T) {
	plan := longPlan(100, 70, 130)

	fp := BuildFuturesPlan(plan, 1000, 5)
	if !fp.SLBeyondLiquidation {
		t.Error("stop at 70 sits under the 80.5 liquidation price, flag not set")
	}
	if !hasWarning(fp.Warnings, "liquidation") {
		t.Errorf("warnings = %v, want the liquidation note", fp.Warnings)
	}
}

func TestBuildFuturesPlanDefaultsAndInvalid(t *testing.T) {
	plan := longPlan(100, 96, 106)

	if fp := BuildFuturesPlan(plan, 1000, 0); !almostEqual(fp.Leverage, 5) {
		t.Errorf("leverage = %v, want the 5x default", fp.Leverage)
	}
	if BuildFuturesPlan(domain.TradePlan{}, 1000, 5) != nil {
		t.Error("want nil without an entry price")
	}
	if BuildFuturesPlan(plan, 0, 5) != nil {
		t.Error("want nil without capital")
	}
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
