package wizard

import (
	"errors"
	"net/http"
	"strings"

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
	rg.GET("/wizard", h.get)
	rg.PUT("/wizard", h.update)
	rg.POST("/wizard/step", h.step)
}

func (h *Handler) get(c *gin.Context) {
	st, err := h.Svc.Current(c.Request.Context(), middleware.SessionIDFromContext(c), middleware.UserEmailFromContext(c))
	if err != nil {
		failed(c, err)
		return
	}
	respond.OK(c, view(st))
}

func (h *Handler) update(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Invalid(c, "invalid request body", nil)
		return
	}
	st, err := h.Svc.Update(c.Request.Context(), middleware.SessionIDFromContext(c), middleware.UserEmailFromContext(c), patch)
	if err != nil {
		failed(c, err)
		return
	}
	respond.OK(c, view(st))
}

type stepRequest struct {
	Step string `json:"step"`
}

// step jumps to the named step, or completes the current one when no step
// is given.
func (h *Handler) step(c *gin.Context) {
	var req stepRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	sessionID := middleware.SessionIDFromContext(c)
	email := middleware.UserEmailFromContext(c)

	var (
		st  State
		err error
	)
	if name := strings.ToLower(strings.TrimSpace(req.Step)); name != "" {
		st, err = h.Svc.SetStep(ctx, sessionID, email, Step(name))
	} else {
		st, err = h.Svc.Complete(ctx, sessionID, email)
	}
	if err != nil {
		failed(c, err)
		return
	}
	respond.OK(c, view(st))
}

func view(st State) gin.H {
	completed := make([]Step, 0, len(Steps))
	for _, s := range Steps {
		if s.Index() < st.Step.Index() {
			completed = append(completed, s)
		}
	}
	return gin.H{
		"state":     st,
		"steps":     Steps,
		"completed": completed,
	}
}

func failed(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, "step must be one of upload, analyze, match, optimize, apply", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load wizard state", nil)
}
