package httpserver

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"freshprep/internal/domain"
	sessionrepo "freshprep/internal/repository/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// cartSessionCookie carries the anonymous cart session id.
	cartSessionCookie = "fps-session-id"
	// authTokenCookie carries the opaque login session token.
	authTokenCookie = "fps-auth-token"

	cartSessionMaxAge = 30 * 24 * 60 * 60

	ctxUserID        = "userID"
	ctxCartSessionID = "cartSessionID"
)

// identityMiddleware resolves the request's cart owner candidates from
// cookies. An auth token that no longer maps to a live login session is
// ignored rather than rejected; the request proceeds anonymously.
func identityMiddleware(sessions sessionrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(authTokenCookie); err == nil && token != "" {
			userID, err := sessions.GetUserID(c.Request.Context(), token)
			if err == nil {
				c.Set(ctxUserID, userID)
			} else if !errors.Is(err, domain.ErrNotFound) {
				respondError(c, http.StatusInternalServerError, codeInternal, "failed to resolve session", nil)
				c.Abort()
				return
			}
		}
		if sessionID, err := c.Cookie(cartSessionCookie); err == nil && sessionID != "" {
			c.Set(ctxCartSessionID, sessionID)
		}
		c.Next()
	}
}

// setCartSessionCookie emits the anonymous cart cookie. Secure only in
// production so local http development keeps working.
func setCartSessionCookie(c *gin.Context, sessionID string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cartSessionCookie, sessionID, cartSessionMaxAge, "/", "", secure, true)
}

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimitWrites allows up to burst write requests per IP, refilling at
// every interval. Stale client entries are dropped opportunistically.
func rateLimitWrites(every time.Duration, burst int) gin.HandlerFunc {
	clients := make(map[string]*rateClient)
	var mu sync.Mutex

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		client, ok := clients[ip]
		if !ok {
			client = &rateClient{limiter: rate.NewLimiter(rate.Every(every), burst)}
			clients[ip] = client
		}
		client.lastSeen = time.Now()
		allowed := client.limiter.Allow()

		for ip, client := range clients {
			if time.Since(client.lastSeen) > 10*time.Minute {
				delete(clients, ip)
			}
		}
		mu.Unlock()

		if !allowed {
			respondError(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func currentCartSessionID(c *gin.Context) string {
	return c.GetString(ctxCartSessionID)
}
