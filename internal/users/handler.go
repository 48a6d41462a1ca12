package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/shared/server/middleware"
	"findmydreamjobs/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// me answers from the session even when the cache has no row, so a cold
// cache never logs the user out.
func (h *Handler) me(c *gin.Context) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthenticated", "login required", nil)
		return
	}
	out := gin.H{
		"id":       id.UserID,
		"email":    id.Email,
		"fullName": id.Name,
	}
	if h.Svc != nil {
		user, err := h.Svc.GetByID(c.Request.Context(), id.UserID)
		switch {
		case err == nil:
			if user.FullName != "" {
				out["fullName"] = user.FullName
			}
			out["pictureUrl"] = user.PictureURL
			out["provider"] = user.Provider
			out["lastLoginAt"] = user.LastLoginAt
		case errors.Is(err, ErrNotFound):
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
			return
		}
	}
	respond.JSON(c, http.StatusOK, out)
}
