package middleware

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/shared/metrics"
)

const (
	WelcomeToast     = "👋 Welcome to FindMyDreamJobs.com! Please sign in or create an account to get started."
	LoginPath        = "/login"
	GuardRedirectMs  = 1500
	guardRedirectSec = 2
)

// RequireSession rejects unauthenticated requests. JSON clients receive a
// 401 with the welcome toast and redirect hint; browsers receive a small
// page that shows the toast and forwards to /login.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionStateFromContext(c) == StateAuthenticated {
			c.Next()
			return
		}

		c.Set(sessionStateKey, StateUnauthenticated)
		metrics.IncSessionRejected()
		switch c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) {
		case gin.MIMEHTML:
			c.Header("Cache-Control", "no-store")
			c.Data(http.StatusUnauthorized, "text/html; charset=utf-8", []byte(guardPage()))
			c.Abort()
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":             gin.H{"code": "unauthenticated", "message": WelcomeToast},
				"toast":             WelcomeToast,
				"redirect":          LoginPath,
				"redirect_after_ms": GuardRedirectMs,
			})
		}
	}
}

func guardPage() string {
	return fmt.Sprintf(`<!doctype html>
<html><head><meta charset="utf-8"><meta http-equiv="refresh" content="%d;url=%s"><title>FindMyDreamJobs</title></head>
<body><p role="status">%s</p><script>setTimeout(function(){location.replace(%q)},%d)</script></body></html>
`, guardRedirectSec, LoginPath, html.EscapeString(WelcomeToast), LoginPath, GuardRedirectMs)
}
