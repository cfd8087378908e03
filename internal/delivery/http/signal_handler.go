package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"advisor-backend/internal/usecase"
)

// SignalHandler exposes the tracked signal lifecycle: open positions,
// history, performance summary and the capital ledger.
type SignalHandler struct {
	tracker *usecase.Tracker
}

func NewSignalHandler(tracker *usecase.Tracker) *SignalHandler {
	return &SignalHandler{tracker: tracker}
}

// Active handles GET /api/signals/active?class=CRYPTO
func (h *SignalHandler) Active(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	class, ok := parseAssetClass(r.URL.Query().Get("class"))
	if !ok {
		http.Error(w, "class must be CRYPTO or EQUITY", http.StatusBadRequest)
		return
	}

	signals, err := h.tracker.Pending(class)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(signals)
}

// History handles GET /api/signals/history?class=CRYPTO&symbol=BTCUSDT&limit=50
func (h *SignalHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	class, ok := parseAssetClass(r.URL.Query().Get("class"))
	if !ok {
		http.Error(w, "class must be CRYPTO or EQUITY", http.StatusBadRequest)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	history, err := h.tracker.History(class, symbol, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}

// Summary handles GET /api/signals/summary?class=CRYPTO
func (h *SignalHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	class, ok := parseAssetClass(r.URL.Query().Get("class"))
	if !ok {
		http.Error(w, "class must be CRYPTO or EQUITY", http.StatusBadRequest)
		return
	}

	summary, err := h.tracker.Summary(class)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// Resolve handles POST /api/signals/resolve: forces an immediate
// resolution pass instead of waiting for the next tick.
func (h *SignalHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.tracker.ResolveAll(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Capital handles GET /api/capital?class=CRYPTO
func (h *SignalHandler) Capital(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	class, ok := parseAssetClass(r.URL.Query().Get("class"))
	if !ok {
		http.Error(w, "class must be CRYPTO or EQUITY", http.StatusBadRequest)
		return
	}

	capital, err := h.tracker.Capital(class)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(capital)
}
