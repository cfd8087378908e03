package usecase

import (
	"testing"

	"advisor-backend/internal/domain"
)

func findEntry(breakdown []domain.BreakdownEntry, indicator string) *domain.BreakdownEntry {
	for i := range breakdown {
		if breakdown[i].Indicator == indicator {
			return &breakdown[i]
		}
	}
	return nil
}

func TestMakeDecisionInsufficientCandles(t *testing.T) {
	policy := domain.CryptoPolicy()
	decision := MakeDecision(DecisionInput{
		Symbol:  "ETHUSDT",
		Candles: map[string][]domain.Candle{"1h": candlesFromCloses(linearCloses(10, 100, 1))},
	}, policy)

	if decision.Action != domain.ActionWait || decision.Strength != domain.StrengthNeutral {
		t.Errorf("got %s/%s, want WAIT/NEUTRAL", decision.Action, decision.Strength)
	}
	if len(decision.Breakdown) != 1 || decision.Breakdown[0].Indicator != "DATA" {
		t.Errorf("breakdown = %+v, want a single DATA entry", decision.Breakdown)
	}
}

func TestMakeDecisionUptrendBonus(t *testing.T) {
	policy := domain.CryptoPolicy()
	decision := MakeDecision(DecisionInput{
		Symbol:          "ETHUSDT",
		Candles:         map[string][]domain.Candle{"1h": candlesFromCloses(growthCloses(260))},
		BenchmarkCloses: growthCloses(100),
	}, policy)

	bonus := findEntry(decision.Breakdown, "Trend Bonus")
	if bonus == nil {
		t.Fatal("no Trend Bonus entry with MA and MACD aligned up")
	}
	if !almostEqual(bonus.Contribution, policy.TrendBonus) {
		t.Errorf("bonus = %v, want %v", bonus.Contribution, policy.TrendBonus)
	}

	stoch := findEntry(decision.Breakdown, "Stochastic")
	if stoch == nil {
		t.Fatal("no Stochastic entry")
	}
	if stoch.RawSignal < 0 && stoch.Contribution != 0 {
		t.Errorf("stochastic contribution = %v, want 0 when fighting the trend", stoch.Contribution)
	}

	if decision.Score <= 0 {
		t.Errorf("score = %v, want positive in a steady uptrend", decision.Score)
	}
	if decision.Action == domain.ActionSell {
		t.Errorf("action = SELL in a steady uptrend")
	}
	if want := min100(decision.Score); !almostEqual(decision.Confidence, want) {
		t.Errorf("confidence = %v, want %v", decision.Confidence, want)
	}
}

func min100(score float64) float64 {
	if score < 0 {
		score = -score
	}
	if score > 100 {
		return 100
	}
	return score
}

func TestMakeDecisionBenchmarkCrashCapsScore(t *testing.T) {
	policy := domain.CryptoPolicy()
	benchmark := flatCloses(40, 100)
	benchmark[len(benchmark)-1] = 90 // -10% daily move

	decision := MakeDecision(DecisionInput{
		Symbol:          "ETHUSDT",
		Candles:         map[string][]domain.Candle{"1h": candlesFromCloses(growthCloses(260))},
		BenchmarkCloses: benchmark,
	}, policy)

	if !decision.Sentiment.IsCrash {
		t.Fatal("sentiment did not flag the crash")
	}
	if decision.Score > policy.CrashScore {
		t.Errorf("score = %v, want capped at %v during a benchmark crash", decision.Score, policy.CrashScore)
	}
	if decision.Action != domain.ActionWait || decision.Strength != domain.StrengthWeak {
		t.Errorf("got %s/%s, want WAIT/WEAK while the benchmark is crashing", decision.Action, decision.Strength)
	}
	if findEntry(decision.Breakdown, "CRASH_PROTECTION") == nil {
		t.Error("no CRASH_PROTECTION entry")
	}
}

func TestMakeDecisionEquityCrashForcesWait(t *testing.T) {
	policy := domain.EquityPolicy()
	benchmark := flatCloses(60, 7000)
	benchmark[len(benchmark)-1] = 6860 // -2% daily move

	decision := MakeDecision(DecisionInput{
		Symbol:          "BBCA.JK",
		Candles:         map[string][]domain.Candle{"1D": candlesFromCloses(growthCloses(260))},
		BenchmarkCloses: benchmark,
	}, policy)

	if !decision.Sentiment.IsCrash {
		t.Fatal("sentiment did not flag the crash")
	}
	if !almostEqual(decision.Score, policy.CrashScore) {
		t.Errorf("score = %v, want forced to %v", decision.Score, policy.CrashScore)
	}
	if decision.Action != domain.ActionWait || decision.Strength != domain.StrengthWeak {
		t.Errorf("got %s/%s, want WAIT/WEAK, a crash never reads as a sell setup", decision.Action, decision.Strength)
	}
}

func TestMakeDecisionSelfBenchmarkSkipsCrashOverride(t *testing.T) {
	policy := domain.CryptoPolicy()
	benchmark := flatCloses(40, 100)
	benchmark[len(benchmark)-1] = 90

	decision := MakeDecision(DecisionInput{
		Symbol:          "BTCUSDT",
		Candles:         map[string][]domain.Candle{"1h": candlesFromCloses(growthCloses(260))},
		BenchmarkCloses: benchmark,
	}, policy)

	if !decision.Sentiment.IsSelf {
		t.Fatal("BTCUSDT not recognized as its own benchmark")
	}
	if findEntry(decision.Breakdown, "CRASH_PROTECTION") != nil {
		t.Error("crash override applied to the benchmark symbol itself")
	}
}

func TestClassifyScore(t *testing.T) {
	crypto := domain.CryptoPolicy()
	equity := domain.EquityPolicy()

	cases := []struct {
		name     string
		score    float64
		policy   domain.Policy
		action   domain.Action
		strength domain.Strength
	}{
		{"strong buy", 75, crypto, domain.ActionBuy, domain.StrengthStrong},
		{"moderate buy crypto", 50, crypto, domain.ActionBuy, domain.StrengthModerate},
		{"moderate sell crypto", -45, crypto, domain.ActionSell, domain.StrengthModerate},
		{"strong sell", -80, equity, domain.ActionSell, domain.StrengthStrong},
		{"crypto buy below equity bar", 46, equity, domain.ActionWait, domain.StrengthNeutral},
		{"wait", 10, crypto, domain.ActionWait, domain.StrengthNeutral},
	}
	for _, c := range cases {
		action, strength := classifyScore(c.score, c.policy)
		if action != c.action || strength != c.strength {
			t.Errorf("%s: got %s/%s, want %s/%s", c.name, action, strength, c.action, c.strength)
		}
	}
}

func TestSentimentWeightOverrides(t *testing.T) {
	equity := domain.EquityPolicy()
	crypto := domain.CryptoPolicy()

	if w := equity.SentimentWeight(domain.SentimentReport{IsCrash: true}); !almostEqual(w, 0.5) {
		t.Errorf("equity crash weight = %v, want 0.5", w)
	}
	if w := equity.SentimentWeight(domain.SentimentReport{}); !almostEqual(w, equity.Weights.Sentiment) {
		t.Errorf("equity weight = %v, want configured %v", w, equity.Weights.Sentiment)
	}
	if w := crypto.SentimentWeight(domain.SentimentReport{IsSelf: true}); !almostEqual(w, 0.01) {
		t.Errorf("crypto self weight = %v, want 0.01", w)
	}
}
