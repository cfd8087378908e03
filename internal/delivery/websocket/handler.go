package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"advisor-backend/internal/domain"
	"advisor-backend/internal/usecase"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// snapshot is one streamed frame: open signals and the capital ledger
// per asset class.
type snapshot struct {
	Signals map[string][]*domain.SignalRecord `json:"signals"`
	Capital map[string]domain.CapitalStatus   `json:"capital"`
	At      time.Time                         `json:"at"`
}

type Handler struct {
	tracker *usecase.Tracker
	logger  zerolog.Logger
}

func NewHandler(tracker *usecase.Tracker, logger zerolog.Logger) *Handler {
	return &Handler{
		tracker: tracker,
		logger:  logger.With().Str("component", "ws").Logger(),
	}
}

// Handle upgrades the connection and pushes a portfolio snapshot every
// five seconds.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Upgrade failed")
		return
	}
	defer conn.Close()

	h.logger.Info().Str("remote", r.RemoteAddr).Msg("Client connected")

	if err := conn.WriteJSON(h.snapshot()); err != nil {
		h.logger.Warn().Err(err).Msg("Write error")
		return
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteJSON(h.snapshot()); err != nil {
			h.logger.Warn().Err(err).Msg("Write error")
			return
		}
	}
}

func (h *Handler) snapshot() snapshot {
	snap := snapshot{
		Signals: make(map[string][]*domain.SignalRecord),
		Capital: make(map[string]domain.CapitalStatus),
		At:      time.Now(),
	}
	for _, class := range []domain.AssetClass{domain.AssetCrypto, domain.AssetEquity} {
		if pending, err := h.tracker.Pending(class); err == nil {
			snap.Signals[string(class)] = pending
		}
		if capital, err := h.tracker.Capital(class); err == nil {
			snap.Capital[string(class)] = capital
		}
	}
	return snap
}
