package dashboard

import (
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
	rg.GET("/dashboard", h.get)
}

func (h *Handler) get(c *gin.Context) {
	userID, err := middleware.BackendUserIDFromContext(c)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthenticated", middleware.WelcomeToast, nil)
		return
	}
	view, err := h.Svc.Load(c.Request.Context(), userID, middleware.UserNameFromContext(c), middleware.UserEmailFromContext(c))
	if err != nil {
		respond.Upstream(c, err, "Failed to load dashboard.")
		return
	}
	respond.OK(c, view)
}
