package sheets

import (
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// DefaultExpiryMargin is how long before expiry a cached token is replaced.
const DefaultExpiryMargin = time.Minute

// TokenCache memoizes tokens from an underlying source and refreshes them
// once they are within the margin of expiry. One cache belongs to one client.
type TokenCache struct {
	mu     sync.Mutex
	source oauth2.TokenSource
	margin time.Duration
	now    func() time.Time
	tok    *oauth2.Token
}

func NewTokenCache(source oauth2.TokenSource, margin time.Duration) *TokenCache {
	if margin <= 0 {
		margin = DefaultExpiryMargin
	}
	return &TokenCache{source: source, margin: margin, now: time.Now}
}

// Token implements oauth2.TokenSource.
func (c *TokenCache) Token() (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fresh() {
		return c.tok, nil
	}
	tok, err := c.source.Token()
	if err != nil {
		return nil, err
	}
	c.tok = tok
	return tok, nil
}

func (c *TokenCache) fresh() bool {
	if c.tok == nil || c.tok.AccessToken == "" {
		return false
	}
	if c.tok.Expiry.IsZero() {
		return true
	}
	return c.tok.Expiry.After(c.now().Add(c.margin))
}

// Invalidate drops the cached token, e.g. after a 401.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.tok = nil
	c.mu.Unlock()
}
