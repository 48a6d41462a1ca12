package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/shared/server/middleware"
	"findmydreamjobs/internal/shared/server/respond"
)

type Handler struct {
	Svc          *Service
	SecureCookie bool
}

func NewHandler(svc *Service, secureCookie bool) *Handler {
	return &Handler{Svc: svc, SecureCookie: secureCookie}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/session", h.current)
	rg.POST("/auth/logout", h.logout)
}

// Establish starts a session for a successful login and writes the cookie.
func (h *Handler) Establish(c *gin.Context, in StartInput) (Session, error) {
	sess, token, err := h.Svc.Start(c.Request.Context(), in)
	if err != nil {
		return Session{}, err
	}
	middleware.SetSessionCookie(c, token, int(h.Svc.TTL.Seconds()), h.SecureCookie)
	middleware.SetIdentity(c, middleware.Identity{
		SessionID:    sess.ID,
		UserID:       sess.UserID,
		Email:        sess.Email,
		Name:         sess.Name,
		BackendToken: sess.BackendToken,
	})
	return sess, nil
}

func (h *Handler) current(c *gin.Context) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		respond.JSON(c, http.StatusOK, gin.H{"state": middleware.StateUnauthenticated})
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"state":   middleware.StateAuthenticated,
		"user_id": id.UserID,
		"token":   id.BackendToken,
		"user": gin.H{
			"id":    id.UserID,
			"email": id.Email,
			"name":  id.Name,
		},
	})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.Svc.End(c.Request.Context(), middleware.SessionIDFromContext(c)); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to end session", nil)
		return
	}
	middleware.ClearSessionCookie(c, h.SecureCookie)
	respond.JSON(c, http.StatusOK, gin.H{"state": middleware.StateUnauthenticated, "redirect": "/login"})
}
