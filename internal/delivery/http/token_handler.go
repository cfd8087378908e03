package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"advisor-backend/internal/repository"
)

// TokenHandler manages FCM device token registration.
type TokenHandler struct {
	tokens *repository.TokenRepository
	logger zerolog.Logger
}

func NewTokenHandler(tokens *repository.TokenRepository, logger zerolog.Logger) *TokenHandler {
	return &TokenHandler{
		tokens: tokens,
		logger: logger.With().Str("component", "tokens").Logger(),
	}
}

type tokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type tokenResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// Register handles POST /api/tokens/register
func (h *TokenHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}
	if req.Platform == "" {
		req.Platform = "android"
	}

	h.tokens.Register(req.Token, req.Platform)
	h.logger.Info().Str("platform", req.Platform).Msg("Device token registered")

	writeTokenResponse(w, h.tokens.Count())
}

// Unregister handles POST /api/tokens/unregister
func (h *TokenHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	h.tokens.Unregister(req.Token)
	h.logger.Info().Msg("Device token unregistered")

	writeTokenResponse(w, h.tokens.Count())
}

// Count handles GET /api/tokens/count
func (h *TokenHandler) Count(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeTokenResponse(w, h.tokens.Count())
}

func writeTokenResponse(w http.ResponseWriter, count int) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokenResponse{Success: true, Count: count})
}
