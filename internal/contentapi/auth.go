package contentapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"thibou/internal/catalog"
	"thibou/internal/logging"
	"thibou/internal/services"
)

// refreshLeeway is how close to expiry a token may get before it is replaced.
const refreshLeeway = time.Minute

type systemToken struct {
	raw       string
	expiresAt time.Time
	scopes    []string
}

// Authenticate exchanges the system key for a bearer token. Any failure is
// fatal to the run.
func (c *Client) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx)
}

func (c *Client) authenticateLocked(ctx context.Context) error {
	if c.systemKey == "" {
		return services.Wrap(services.ErrAuth, component, "authenticate", "system key is empty", nil)
	}
	resp, err := c.send(ctx, http.MethodPost, "authenticate", map[string]string{"key": c.systemKey}, false, []int{http.StatusOK}, "auth", "system")
	if err != nil {
		return services.Wrap(services.ErrAuth, component, "authenticate", "", err)
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := decodeBody(resp, "authenticate", &payload); err != nil {
		return services.Wrap(services.ErrAuth, component, "authenticate", "", err)
	}
	raw := strings.TrimSpace(payload.Token)
	if raw == "" {
		return services.Wrap(services.ErrAuth, component, "authenticate", "response carried no token", nil)
	}

	token := systemToken{raw: raw}
	if claims, err := parseClaims(raw); err != nil {
		c.logger.Debug("system token claims unreadable", logging.Error(err))
	} else {
		token.expiresAt = claims.expiresAt
		token.scopes = claims.scopes
	}
	c.token = token

	attrs := []logging.Attr{logging.Int("scopes", len(token.scopes))}
	if !token.expiresAt.IsZero() {
		attrs = append(attrs, logging.String("expires_at", token.expiresAt.UTC().Format(time.RFC3339)))
	}
	c.logger.Info("authenticated with system key", logging.Args(attrs...)...)
	return nil
}

// bearer returns the current token, re-authenticating when it is about to
// expire.
func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token.raw == "" {
		return "", services.Wrap(services.ErrAuth, component, "authorize", "", errNotAuthenticated)
	}
	if !c.token.expiresAt.IsZero() && !c.now().Add(refreshLeeway).Before(c.token.expiresAt) {
		c.logger.Info("system token near expiry, refreshing")
		if err := c.authenticateLocked(ctx); err != nil {
			return "", err
		}
	}
	return c.token.raw, nil
}

// CanWrite reports whether the current token carries a write or admin scope
// for kind. Tokens without a readable scope claim are assumed sufficient.
func (c *Client) CanWrite(kind catalog.Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token.scopes == nil {
		return true
	}
	for _, scope := range c.token.scopes {
		if scope == string(kind)+":write" || scope == string(kind)+":admin" {
			return true
		}
	}
	return false
}

// ExpiresAt returns the expiry of the current token, zero when unknown.
func (c *Client) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token.expiresAt
}

type tokenClaims struct {
	expiresAt time.Time
	scopes    []string
}

// parseClaims reads exp and user.scopes without verifying the signature; the
// client only needs them for scheduling and diagnostics.
func parseClaims(raw string) (tokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return tokenClaims{}, err
	}
	var out tokenClaims
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.expiresAt = exp.Time
	}
	out.scopes = scopesFrom(claims["scopes"])
	if user, ok := claims["user"].(map[string]any); ok && out.scopes == nil {
		out.scopes = scopesFrom(user["scopes"])
	}
	return out, nil
}

func scopesFrom(value any) []string {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	scopes := make([]string, 0, len(list))
	for _, entry := range list {
		if scope, ok := entry.(string); ok {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}
