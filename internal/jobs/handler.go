package jobs

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
	msgNeedJob       = "Please provide a job link or paste a job description."
	msgParsed        = "Job description parsed successfully!"
	msgNeedKeywords  = "Please enter a job title or keywords."
	msgSaved         = "✅ Job saved to Saved tab"
	msgAnalyzedSaved = "✅ Job analyzed and saved!"
	msgInvalidJobID  = "⚠️ Please enter a valid Job ID (positive number)."
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/analyze", h.analyze)
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/search", h.search)
	rg.GET("/jobs/board", h.board)
	rg.POST("/jobs/board/:mark", h.mark)
	rg.GET("/jobs/:id", h.get)
	rg.PUT("/jobs/:id", h.update)
}

type analyzeRequest struct {
	JobLink        string `json:"job_link"`
	JobDescription string `json:"job_description"`
}

func (h *Handler) analyze(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	var req analyzeRequest
	if !respond.BindJSON(c, &req) {
		return
	}

	job, err := h.Svc.Analyze(c.Request.Context(), userID, req.JobLink, req.JobDescription)
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, msgNeedJob, nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Failed to parse job description")
		return
	}
	if key := job.Key(); key != 0 {
		c.Set("jobId", strconv.FormatInt(key, 10))
	}
	respond.Toast(c, http.StatusOK, msgParsed, gin.H{"job": job, "job_id": job.Key()})
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	items, err := h.Svc.List(c.Request.Context(), strings.TrimSpace(c.Query("scope")), userID)
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, "scope must be all or mine", nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Failed to load jobs.")
		return
	}
	respond.OK(c, gin.H{"jobs": items, "total": len(items)})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	job, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respond.Upstream(c, err, "Job not found.")
		return
	}
	respond.OK(c, job)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	var req backend.JobUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Invalid(c, "invalid request body", nil)
		return
	}
	job, err := h.Svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respond.Upstream(c, err, "Failed to update job.")
		return
	}
	respond.Toast(c, http.StatusOK, "✅ Job updated!", gin.H{"job": job})
}

func (h *Handler) search(c *gin.Context) {
	keywords := c.Query("query")
	location := c.Query("location")
	hits, err := h.Svc.Search(c.Request.Context(), middleware.UserIDFromContext(c), keywords, location)
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, msgNeedKeywords, nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Job search failed.")
		return
	}
	respond.OK(c, gin.H{
		"query":   SearchQuery(keywords, location),
		"results": hits,
		"total":   len(hits),
	})
}

func (h *Handler) board(c *gin.Context) {
	view, err := h.Svc.BoardTab(c.Request.Context(), middleware.UserIDFromContext(c), strings.TrimSpace(c.Query("tab")))
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, "tab must be one of all, saved, analyzed, applied, new", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load board", nil)
		return
	}
	respond.OK(c, view)
}

func (h *Handler) mark(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	kind := MarkKind(c.Param("mark"))
	var req MarkInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Invalid(c, "invalid request body", nil)
		return
	}

	m, err := h.Svc.MarkJob(c.Request.Context(), middleware.UserIDFromContext(c), userID, kind, req)
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, err.Error(), nil)
		return
	}
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			respond.Upstream(c, err, "Failed to analyze job description")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update board", nil)
		return
	}

	payload := gin.H{"mark": m}
	switch kind {
	case MarkSaved:
		respond.Toast(c, http.StatusOK, msgSaved, payload)
	case MarkAnalyzed:
		respond.Toast(c, http.StatusOK, msgAnalyzedSaved, payload)
	default:
		payload["open_url"] = m.JobLink
		respond.OK(c, payload)
	}
}

func backendUser(c *gin.Context) (int64, bool) {
	id, err := middleware.BackendUserIDFromContext(c)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthenticated", middleware.WelcomeToast, nil)
		return 0, false
	}
	return id, true
}

func jobID(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respond.Invalid(c, msgInvalidJobID, nil)
		return 0, false
	}
	c.Set("jobId", raw)
	return id, true
}
