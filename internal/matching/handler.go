package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/shared/server/middleware"
	"findmydreamjobs/internal/shared/server/respond"
)

const (
	msgSelectBoth   = "⚠️ Please select both Resume and Job."
	msgOptimizeBoth = "Please enter both Resume ID and Job ID."
	msgOptimized    = "🎉 Resume optimized successfully!"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/match-score", h.score)
	rg.GET("/matches", h.history)
	rg.GET("/optimize/prepare", h.prepare)
	rg.POST("/optimize", h.optimize)
}

// flexibleID accepts both numbers and numeric strings, as select inputs
// post either.
type flexibleID int64

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	*f = flexibleID(n)
	return nil
}

type scoreRequest struct {
	ResumeID flexibleID `json:"resume_id"`
	JobID    flexibleID `json:"job_id"`
}

func (h *Handler) score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Invalid(c, msgSelectBoth, nil)
		return
	}
	setIDs(c, int64(req.ResumeID), int64(req.JobID))
	res, err := h.Svc.Score(c.Request.Context(), int64(req.ResumeID), int64(req.JobID))
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, msgSelectBoth, nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Failed to calculate match score.")
		return
	}
	respond.OK(c, res)
}

func (h *Handler) history(c *gin.Context) {
	userID, err := middleware.BackendUserIDFromContext(c)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthenticated", middleware.WelcomeToast, nil)
		return
	}
	items, err := h.Svc.History(c.Request.Context(), userID)
	if err != nil {
		respond.Upstream(c, err, "Failed to load matches.")
		return
	}
	respond.OK(c, gin.H{"matches": items, "total": len(items)})
}

func (h *Handler) prepare(c *gin.Context) {
	resumeID, _ := strconv.ParseInt(c.Query("resume_id"), 10, 64)
	jobID, _ := strconv.ParseInt(c.Query("job_id"), 10, 64)
	setIDs(c, resumeID, jobID)
	prep, err := h.Svc.Prepare(c.Request.Context(), resumeID, jobID)
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, msgOptimizeBoth, nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Failed to prepare matching info.")
		return
	}
	respond.OK(c, prep)
}

type optimizeRequest struct {
	ResumeID         flexibleID      `json:"resume_id"`
	JobID            flexibleID      `json:"job_id"`
	EmphasizedSkills json.RawMessage `json:"emphasized_skills"`
	Justification    string          `json:"justification"`
}

// skills accepts either a JSON list or a comma separated string.
func (r optimizeRequest) skills() []string {
	if len(r.EmphasizedSkills) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(r.EmphasizedSkills, &list); err == nil {
		return list
	}
	var raw string
	if err := json.Unmarshal(r.EmphasizedSkills, &raw); err == nil {
		return SplitSkills(raw)
	}
	return nil
}

func (h *Handler) optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Invalid(c, msgOptimizeBoth, nil)
		return
	}
	setIDs(c, int64(req.ResumeID), int64(req.JobID))
	res, err := h.Svc.Optimize(c.Request.Context(), OptimizeInput{
		ResumeID:         int64(req.ResumeID),
		JobID:            int64(req.JobID),
		EmphasizedSkills: req.skills(),
		Justification:    req.Justification,
		SessionID:        middleware.SessionIDFromContext(c),
		Email:            middleware.UserEmailFromContext(c),
	})
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, msgOptimizeBoth, nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Failed to optimize resume.")
		return
	}
	respond.Toast(c, http.StatusOK, msgOptimized, gin.H{"result": res, "next_step": "apply"})
}

func setIDs(c *gin.Context, resumeID, jobID int64) {
	if resumeID > 0 {
		c.Set("resumeId", strconv.FormatInt(resumeID, 10))
	}
	if jobID > 0 {
		c.Set("jobId", strconv.FormatInt(jobID, 10))
	}
}
