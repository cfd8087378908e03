package repository

import (
	"sync"
	"time"
)

// DeviceToken is one registered push target.
type DeviceToken struct {
	Token        string
	Platform     string
	RegisteredAt time.Time
}

// TokenRepository keeps FCM device tokens in memory. Tokens are
// re-registered by clients on startup, so losing them on restart is
// acceptable.
type TokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]DeviceToken
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{tokens: make(map[string]DeviceToken)}
}

// Register adds a token or refreshes its registration time.
func (r *TokenRepository) Register(token, platform string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = DeviceToken{
		Token:        token,
		Platform:     platform,
		RegisteredAt: time.Now(),
	}
}

// Unregister drops a token. Unknown tokens are a no-op.
func (r *TokenRepository) Unregister(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
}

// GetAllTokens returns every registered token string.
func (r *TokenRepository) GetAllTokens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.tokens))
	for token := range r.tokens {
		out = append(out, token)
	}
	return out
}

// Count reports how many devices are registered.
func (r *TokenRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}
