// Package auth implements the authorization gate: dual session-cookie /
// shared-API-key admission that resolves every request to a single
// owner id, which every downstream store call is then scoped to.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/bvquist1400/mission-control/pkg/config"
)

// ErrNotAdmitted is returned when a request carries neither a valid
// session cookie nor a valid API key.
var ErrNotAdmitted = errors.New("not admitted")

// contextKey avoids collisions with other packages' echo.Context values.
type contextKey string

const ownerIDContextKey contextKey = "mission_control_owner_id"

// Gate resolves requests to an owner id using the shared secret and
// owner id read from the environment at startup (never from YAML, per
// the admission config's doc comment).
type Gate struct {
	cfg       *config.AdmissionConfig
	apiKey    string
	ownerID   string
	cookieTTL time.Duration
}

// NewGate reads the shared secret and owner id from the environment
// variables named in cfg. If apiKey is empty, API-key admission and
// session-cookie issuance are both disabled — only pre-existing valid
// session cookies would admit, which will never happen, so every
// request is rejected. This is intentional: an operator who has not
// configured a secret gets a service that refuses all traffic rather
// than one that silently admits everyone.
func NewGate(cfg *config.AdmissionConfig) *Gate {
	return &Gate{
		cfg:       cfg,
		apiKey:    os.Getenv(cfg.APIKeyEnv),
		ownerID:   os.Getenv(cfg.OwnerIDEnv),
		cookieTTL: 30 * 24 * time.Hour,
	}
}

// OwnerID extracts the owner id resolved by Middleware for this request.
func OwnerID(c *echo.Context) string {
	v, _ := c.Get(string(ownerIDContextKey)).(string)
	return v
}

// Middleware admits a request by API key (header, bearer, or query
// param) or by session cookie, storing the resolved owner id on the
// echo.Context. API-key admission also (re)issues the session cookie so
// a browser client only needs to present the key once.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			if owner, ok := g.admitByAPIKey(c); ok {
				g.issueSessionCookie(c, owner)
				c.Set(string(ownerIDContextKey), owner)
				return next(c)
			}
			if owner, ok := g.admitBySessionCookie(c); ok {
				c.Set(string(ownerIDContextKey), owner)
				return next(c)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "not admitted")
		}
	}
}

func (g *Gate) admitByAPIKey(c *echo.Context) (string, bool) {
	if g.apiKey == "" {
		return "", false
	}

	candidate := c.Request().Header.Get(g.cfg.APIKeyHeader)
	if candidate == "" {
		if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			candidate = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if candidate == "" {
		candidate = c.QueryParam(g.cfg.APIKeyQueryParam)
	}
	if candidate == "" {
		return "", false
	}

	if subtle.ConstantTimeCompare([]byte(candidate), []byte(g.apiKey)) != 1 {
		return "", false
	}
	return g.ownerID, true
}

func (g *Gate) admitBySessionCookie(c *echo.Context) (string, bool) {
	cookie, err := c.Cookie(g.cfg.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	owner, ok := g.verify(cookie.Value)
	if !ok || owner != g.ownerID {
		return "", false
	}
	return owner, true
}

// issueSessionCookie sets a signed cookie encoding the owner id, so a
// browser that bootstrapped with ?key= does not need to resend it on
// every request.
func (g *Gate) issueSessionCookie(c *echo.Context, ownerID string) {
	c.SetCookie(&http.Cookie{
		Name:     g.cfg.SessionCookieName,
		Value:    g.sign(ownerID),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(g.cookieTTL.Seconds()),
	})
}

// sign produces "<ownerID>.<hex hmac>" using the API key as the signing
// secret, so no separate key material needs to be provisioned.
func (g *Gate) sign(ownerID string) string {
	mac := hmac.New(sha256.New, []byte(g.apiKey))
	mac.Write([]byte(ownerID))
	sig := hex.EncodeToString(mac.Sum(nil))
	return base64.RawURLEncoding.EncodeToString([]byte(ownerID)) + "." + sig
}

func (g *Gate) verify(token string) (string, bool) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return "", false
	}
	ownerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", false
	}
	owner := string(ownerBytes)

	mac := hmac.New(sha256.New, []byte(g.apiKey))
	mac.Write(ownerBytes)
	expected := hex.EncodeToString(mac.Sum(nil))
	if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) != 1 {
		return "", false
	}
	return owner, true
}
