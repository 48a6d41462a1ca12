package applications

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/backend"
	"findmydreamjobs/internal/shared/server/middleware"
	"findmydreamjobs/internal/shared/server/respond"
)

const (
	msgNeedStatus     = "⚠️ Please enter a status before updating."
	msgStatusUpdated  = "✅ Status updated successfully!"
	msgAllFields      = "⚠️ All fields are required."
	msgSubmitted      = "🎉 Application submitted!"
	msgSubmittedLocal = "✅ Application submitted successfully!"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications", h.list)
	rg.GET("/applications/stats", h.stats)
	rg.POST("/applications", h.submit)
	rg.PUT("/applications/:id/status", h.updateStatus)
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	res, err := h.Svc.List(c.Request.Context(), userID, Query{
		Statuses: c.QueryArray("status"),
		SortKey:  c.Query("sort"),
		SortDir:  c.Query("dir"),
	})
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, err.Error(), nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Failed to load applications. Please try again later.")
		return
	}
	respond.OK(c, res)
}

func (h *Handler) stats(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	res, err := h.Svc.Stats(c.Request.Context(), userID)
	if err != nil {
		respond.Upstream(c, err, "Could not load stats")
		return
	}
	respond.OK(c, res)
}

type submitRequest struct {
	ResumeID       int64  `json:"resume_id"`
	JobID          int64  `json:"job_id"`
	ApplicationURL string `json:"application_url"`
}

func (h *Handler) submit(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Invalid(c, msgAllFields, nil)
		return
	}
	msg, err := h.Svc.Submit(c.Request.Context(), backend.SubmitApplicationRequest{
		UserID:         userID,
		ResumeID:       req.ResumeID,
		JobID:          req.JobID,
		ApplicationURL: req.ApplicationURL,
	})
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, msgAllFields, nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Failed to submit application.")
		return
	}
	message := msg.Status
	if message == "" {
		message = msgSubmittedLocal
	}
	respond.Toast(c, http.StatusCreated, msgSubmitted, gin.H{"message": message})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respond.Invalid(c, "invalid application id", nil)
		return
	}
	var req statusRequest
	if !respond.BindJSON(c, &req) {
		return
	}

	_, err = h.Svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, msgNeedStatus, nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Failed to update status.")
		return
	}
	respond.Toast(c, http.StatusOK, msgStatusUpdated, gin.H{
		"application_id": id,
		"status":         strings.TrimSpace(req.Status),
		"bucket":         Bucket(req.Status),
	})
}

func backendUser(c *gin.Context) (int64, bool) {
	id, err := middleware.BackendUserIDFromContext(c)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthenticated", middleware.WelcomeToast, nil)
		return 0, false
	}
	return id, true
}
