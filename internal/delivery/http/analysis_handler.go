package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"advisor-backend/internal/domain"
	"advisor-backend/internal/usecase"
)

// AnalysisHandler serves on-demand symbol analysis.
type AnalysisHandler struct {
	analyzer *usecase.Analyzer
}

func NewAnalysisHandler(analyzer *usecase.Analyzer) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer}
}

// Analyze handles GET /api/analyze?symbol=BTCUSDT&class=CRYPTO&capital=1000&leverage=5
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	class, ok := parseAssetClass(r.URL.Query().Get("class"))
	if !ok {
		http.Error(w, "class must be CRYPTO or EQUITY", http.StatusBadRequest)
		return
	}

	opts := usecase.AnalyzeOptions{}
	if v := r.URL.Query().Get("capital"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			opts.Capital = f
		}
	}
	if v := r.URL.Query().Get("leverage"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			opts.Leverage = f
		}
	}

	analysis, err := h.analyzer.Analyze(r.Context(), symbol, class, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analysis)
}

type signalRequest struct {
	Symbol   string  `json:"symbol"`
	Class    string  `json:"class"`
	Capital  float64 `json:"capital"`
	Leverage float64 `json:"leverage"`
}

// Signal handles POST /api/signals: runs the analysis and logs the
// outcome when it is actionable.
func (h *AnalysisHandler) Signal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req signalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}
	class, ok := parseAssetClass(req.Class)
	if !ok {
		http.Error(w, "class must be CRYPTO or EQUITY", http.StatusBadRequest)
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), symbol, class, usecase.AnalyzeOptions{
		Capital:  req.Capital,
		Leverage: req.Leverage,
		Track:    true,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analysis)
}

func parseAssetClass(raw string) (domain.AssetClass, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "CRYPTO":
		return domain.AssetCrypto, true
	case "EQUITY", "STOCK":
		return domain.AssetEquity, true
	}
	return "", false
}
