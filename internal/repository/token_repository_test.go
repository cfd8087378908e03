package repository

import "testing"

func TestTokenRepositoryRoundTrip(t *testing.T) {
	repo := NewTokenRepository()

	repo.Register("tok-a", "android")
	repo.Register("tok-b", "ios")
	repo.Register("tok-a", "android") // refresh, not a duplicate

	if repo.Count() != 2 {
		t.Errorf("count = %d, want 2", repo.Count())
	}

	tokens := repo.GetAllTokens()
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		seen[tok] = true
	}
	if len(tokens) != 2 || !seen["tok-a"] || !seen["tok-b"] {
		t.Errorf("tokens = %v, want tok-a and tok-b", tokens)
	}

	repo.Unregister("tok-a")
	repo.Unregister("unknown")
	if repo.Count() != 1 {
		t.Errorf("count after unregister = %d, want 1", repo.Count())
	}
}
