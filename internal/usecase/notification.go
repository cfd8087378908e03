package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"advisor-backend/internal/domain"
)

const notifyCooldown = 5 * time.Minute

type tokenSource interface {
	GetAllTokens() []string
}

type pushSender interface {
	IsEnabled() bool
	SendMulticast(tokens []string, title, body string, data map[string]string) error
}

// Notifier pushes signal lifecycle events to registered devices, with
// a per-symbol cooldown so repeated analysis runs do not spam.
type Notifier struct {
	sender pushSender
	tokens tokenSource
	logger zerolog.Logger

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func NewNotifier(sender pushSender, tokens tokenSource, logger zerolog.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		tokens:   tokens,
		logger:   logger.With().Str("component", "notifier").Logger(),
		lastSent: make(map[string]time.Time),
	}
}

// NotifySignal announces a freshly tracked signal.
func (n *Notifier) NotifySignal(rec *domain.SignalRecord) {
	if !n.ready() || n.inCooldown(rec.Symbol) {
		return
	}

	emoji := "📈"
	if rec.Direction == domain.ActionSell {
		emoji = "📉"
	}
	title := fmt.Sprintf("%s %s %s %s", emoji, rec.Symbol, rec.Strength, rec.Direction)
	body := fmt.Sprintf("Entry %.4f | Score %.0f | Confidence %.0f%%",
		rec.EntryPrice, rec.Score, rec.Confidence)

	n.send(rec.Symbol, title, body, map[string]string{
		"type":   "signal",
		"symbol": rec.Symbol,
		"signal": string(rec.Direction),
		"score":  fmt.Sprintf("%.2f", rec.Score),
	})
}

// NotifyOutcome announces a closed signal. No cooldown: resolutions
// are rare and always worth a push.
func (n *Notifier) NotifyOutcome(rec *domain.SignalRecord) {
	if !n.ready() {
		return
	}

	var title string
	switch rec.Outcome {
	case domain.OutcomeTPHit:
		title = fmt.Sprintf("✅ %s Take Profit Hit", rec.Symbol)
	case domain.OutcomeSLHit:
		title = fmt.Sprintf("🛑 %s Stop Loss Hit", rec.Symbol)
	case domain.OutcomeReversed:
		title = fmt.Sprintf("🔄 %s Signal Reversed", rec.Symbol)
	case domain.OutcomeExpired:
		title = fmt.Sprintf("⌛ %s Signal Expired", rec.Symbol)
	default:
		return
	}

	pnl := 0.0
	if rec.PnLPercent != nil {
		pnl = *rec.PnLPercent
	}
	body := fmt.Sprintf("%s position closed at %+.2f%%", rec.Direction, pnl)

	n.send(rec.Symbol, title, body, map[string]string{
		"type":    "outcome",
		"symbol":  rec.Symbol,
		"outcome": string(rec.Outcome),
		"pnl":     fmt.Sprintf("%.2f", pnl),
	})
}

func (n *Notifier) ready() bool {
	return n != nil && n.sender != nil && n.sender.IsEnabled() && n.tokens != nil
}

func (n *Notifier) inCooldown(symbol string) bool {
	now := time.Now()
	n.mu.Lock()
	defer n.mu.Unlock()

	if sent, ok := n.lastSent[symbol]; ok && now.Sub(sent) < notifyCooldown {
		return true
	}
	for sym, ts := range n.lastSent {
		if now.Sub(ts) > notifyCooldown*2 {
			delete(n.lastSent, sym)
		}
	}
	return false
}

func (n *Notifier) send(symbol, title, body string, data map[string]string) {
	tokens := n.tokens.GetAllTokens()
	if len(tokens) == 0 {
		return
	}
	if err := n.sender.SendMulticast(tokens, title, body, data); err != nil {
		n.logger.Error().Err(err).Str("symbol", symbol).Msg("Push failed")
		return
	}
	n.mu.Lock()
	n.lastSent[symbol] = time.Now()
	n.mu.Unlock()
	n.logger.Debug().Str("symbol", symbol).Int("devices", len(tokens)).Msg("Push sent")
}
