package jdi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/shared/server/middleware"
	"findmydreamjobs/internal/shared/server/respond"
	"findmydreamjobs/internal/shared/telemetry"
)

const (
	msgScanFailed       = "Failed to scan for new jobs"
	msgPromotedAnalyze  = "Job promoted! Navigating to analysis..."
	msgPromotedSave     = "Job saved to your collection!"
	msgPromoteFailed    = "Failed to promote candidate"
	msgIgnored          = "Candidate ignored"
	msgIgnoreFailed     = "Failed to ignore candidate"
	msgSeenFailed       = "Failed to mark candidate as seen"
	msgSaved            = "JDI preferences saved!"
	msgSaveFailed       = "Failed to save preferences"
	msgGmailConnected   = "Gmail connected successfully!"
	msgGmailError       = "Failed to connect Gmail. Please try again."
	msgGmailConnectFail = "Failed to initiate Gmail connection"
	msgGmailRevoked     = "Gmail disconnected"
	msgGmailRevokeFail  = "Failed to disconnect Gmail"

	setupPath     = "/jdi/setup"
	afterSavePath = "/jobs?tab=jdi"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jdi/candidates", h.feed)
	rg.GET("/jdi/candidates/:id", h.candidate)
	rg.POST("/jdi/candidates/:id/seen", h.seen)
	rg.POST("/jdi/candidates/:id/ignore", h.ignore)
	rg.POST("/jdi/candidates/:id/promote", h.promote)
	rg.POST("/jdi/run", h.run)
	rg.GET("/jdi/unread-count", h.unreadCount)

	setup := rg.Group("/jdi/setup")
	setup.GET("", h.setup)
	setup.POST("/sources/:source/toggle", h.toggleSource)
	setup.POST("/resumes", h.addResume)
	setup.DELETE("/resumes/:id", h.removeResume)
	setup.PUT("/min-score", h.minScore)
	setup.PUT("/scan-window", h.scanWindow)
	setup.POST("/patterns", h.addPattern)
	setup.DELETE("/patterns", h.removePattern)
	setup.POST("/save", h.save)
	setup.GET("/callback", h.callback)

	rg.GET("/integrations/gmail", h.gmailStatus)
	rg.POST("/integrations/gmail/connect", h.gmailConnect)
	rg.POST("/integrations/gmail/revoke", h.gmailRevoke)
}

func (h *Handler) feed(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	mode, err := ParseFilterMode(c.Query("filter"))
	if err != nil {
		respond.Invalid(c, "filter must be all, unread or read", nil)
		return
	}
	feed, err := h.Svc.Feed(c.Request.Context(), userID, mode, c.Query("source"))
	if err != nil {
		respond.Upstream(c, err, "Failed to load JDI candidates")
		return
	}
	respond.OK(c, gin.H{
		"candidates": feed.Candidates,
		"total":      feed.Total,
		"filter":     mode,
	})
}

func (h *Handler) unreadCount(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	n, err := h.Svc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respond.Upstream(c, err, "Failed to load unread count")
		return
	}
	respond.OK(c, gin.H{"unread": n})
}

func (h *Handler) candidate(c *gin.Context) {
	userID, id, ok := candidateTarget(c)
	if !ok {
		return
	}
	detail, err := h.Svc.Candidate(c.Request.Context(), userID, id)
	if err != nil {
		respond.Upstream(c, err, "Candidate not found")
		return
	}
	respond.OK(c, detail)
}

func (h *Handler) seen(c *gin.Context) {
	userID, id, ok := candidateTarget(c)
	if !ok {
		return
	}
	if err := h.Svc.MarkSeen(c.Request.Context(), userID, id); err != nil {
		respond.Upstream(c, err, msgSeenFailed)
		return
	}
	respond.OK(c, gin.H{"candidate_id": id, "seen": true})
}

func (h *Handler) ignore(c *gin.Context) {
	userID, id, ok := candidateTarget(c)
	if !ok {
		return
	}
	if err := h.Svc.Ignore(c.Request.Context(), userID, id); err != nil {
		respond.Upstream(c, err, msgIgnoreFailed)
		return
	}
	respond.Toast(c, http.StatusOK, msgIgnored, gin.H{"candidate_id": id})
}

type promoteRequest struct {
	Mode   string `json:"mode"`
	JDText string `json:"jd_text"`
}

func (h *Handler) promote(c *gin.Context) {
	userID, id, ok := candidateTarget(c)
	if !ok {
		return
	}
	var req promoteRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	mode := PromoteMode(strings.ToLower(strings.TrimSpace(req.Mode)))

	p, err := h.Svc.Promote(c.Request.Context(), middleware.SessionIDFromContext(c), userID, id, mode, req.JDText)
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, "mode must be save or analyze", nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, msgPromoteFailed)
		return
	}
	c.Set("jobId", strconv.FormatInt(p.JobID, 10))
	if mode == PromoteAnalyze {
		respond.Toast(c, http.StatusOK, msgPromotedAnalyze, gin.H{
			"job_id":   p.JobID,
			"jd_text":  p.JDText,
			"redirect": fmt.Sprintf("/analyze?job_id=%d", p.JobID),
		})
		return
	}
	respond.Toast(c, http.StatusOK, msgPromotedSave, gin.H{"job_id": p.JobID})
}

type runRequest struct {
	WindowHours int `json:"window_hours"`
}

func (h *Handler) run(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	var req runRequest
	if !respond.BindJSON(c, &req) {
		return
	}

	res, err := h.Svc.Scan(c.Request.Context(), userID, req.WindowHours)
	if errors.Is(err, ErrInvalidInput) {
		respond.Invalid(c, fmt.Sprintf("window_hours must be between 1 and %d", MaxWindowHours), nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, msgScanFailed)
		return
	}
	toast := fmt.Sprintf("Scan complete: %d new jobs found from %d emails", res.NewCandidates, res.TotalEmailsScanned)
	respond.Toast(c, http.StatusOK, toast, gin.H{"result": res})
}

func (h *Handler) setup(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	d, err := h.Svc.Draft(ctx, middleware.SessionIDFromContext(c), userID)
	if err != nil {
		h.draftFailed(c, err)
		return
	}
	gmail, err := h.Svc.Gmail(ctx, userID)
	if err != nil {
		telemetry.Warn("jdi.gmail_status_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err.Error(),
		})
		gmail = GmailState{}
	}
	respond.OK(c, gin.H{
		"draft":        d,
		"gmail":        gmail,
		"sources":      Sources,
		"scan_windows": ScanWindows,
	})
}

func (h *Handler) toggleSource(c *gin.Context) {
	source := strings.ToLower(strings.TrimSpace(c.Param("source")))
	h.edit(c, func(d *Draft) error { return d.ToggleSource(source) })
}

type resumeRequest struct {
	ResumeID int64 `json:"resume_id"`
}

func (h *Handler) addResume(c *gin.Context) {
	var req resumeRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	h.edit(c, func(d *Draft) error { return d.AddResume(req.ResumeID) })
}

func (h *Handler) removeResume(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		respond.Invalid(c, ErrInvalidResumeID.Message, nil)
		return
	}
	h.edit(c, func(d *Draft) error {
		d.RemoveResume(id)
		return nil
	})
}

type minScoreRequest struct {
	MinScore *int `json:"min_score"`
}

func (h *Handler) minScore(c *gin.Context) {
	var req minScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MinScore == nil {
		respond.Invalid(c, ErrMinScoreRange.Message, nil)
		return
	}
	h.edit(c, func(d *Draft) error { return d.SetMinScore(*req.MinScore) })
}

type scanWindowRequest struct {
	Days int `json:"days"`
}

func (h *Handler) scanWindow(c *gin.Context) {
	var req scanWindowRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	h.edit(c, func(d *Draft) error { return d.SetScanWindow(req.Days) })
}

type patternRequest struct {
	Pattern string `json:"pattern"`
}

func (h *Handler) addPattern(c *gin.Context) {
	var req patternRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	h.edit(c, func(d *Draft) error {
		_, err := d.AddPattern(req.Pattern)
		return err
	})
}

func (h *Handler) removePattern(c *gin.Context) {
	var req patternRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	if req.Pattern == "" {
		req.Pattern = c.Query("pattern")
	}
	h.edit(c, func(d *Draft) error {
		d.RemovePattern(req.Pattern)
		return nil
	})
}

func (h *Handler) save(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	profile, err := h.Svc.Save(c.Request.Context(), middleware.SessionIDFromContext(c), userID)
	if err != nil {
		respond.Upstream(c, err, msgSaveFailed)
		return
	}
	respond.Toast(c, http.StatusOK, msgSaved, gin.H{
		"profile":  profile,
		"redirect": afterSavePath,
	})
}

// callback is where the Gmail OAuth round trip lands.
func (h *Handler) callback(c *gin.Context) {
	switch {
	case c.Query("jdi_connected") == "true":
		respond.Toast(c, http.StatusOK, msgGmailConnected, gin.H{"connected": true, "redirect": setupPath})
	case c.Query("jdi_error") == "true":
		respond.Toast(c, http.StatusOK, msgGmailError, gin.H{"connected": false, "toast_level": "error", "redirect": setupPath})
	default:
		respond.OK(c, gin.H{"redirect": setupPath})
	}
}

func (h *Handler) gmailStatus(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	state, err := h.Svc.Gmail(c.Request.Context(), userID)
	if err != nil {
		respond.Upstream(c, err, "Failed to load Gmail status")
		return
	}
	respond.OK(c, state)
}

func (h *Handler) gmailConnect(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	authURL, err := h.Svc.ConnectGmail(c.Request.Context(), userID)
	if err != nil {
		respond.Upstream(c, err, msgGmailConnectFail)
		return
	}
	respond.OK(c, gin.H{"authorization_url": authURL})
}

func (h *Handler) gmailRevoke(c *gin.Context) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	if err := h.Svc.RevokeGmail(c.Request.Context(), userID); err != nil {
		respond.Upstream(c, err, msgGmailRevokeFail)
		return
	}
	respond.Toast(c, http.StatusOK, msgGmailRevoked, gin.H{"connected": false})
}

func (h *Handler) edit(c *gin.Context, fn func(*Draft) error) {
	userID, ok := backendUser(c)
	if !ok {
		return
	}
	d, err := h.Svc.Edit(c.Request.Context(), middleware.SessionIDFromContext(c), userID, fn)
	if err != nil {
		h.draftFailed(c, err)
		return
	}
	respond.OK(c, gin.H{"draft": d})
}

func (h *Handler) draftFailed(c *gin.Context, err error) {
	var rule *RuleError
	switch {
	case errors.As(err, &rule):
		respond.Invalid(c, rule.Message, nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "setup draft not found", nil)
	default:
		respond.Upstream(c, err, "Failed to load preferences")
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

func candidateTarget(c *gin.Context) (int64, string, bool) {
	userID, ok := backendUser(c)
	if !ok {
		return 0, "", false
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respond.Invalid(c, "candidate id is required", nil)
		return 0, "", false
	}
	c.Set("candidateId", id)
	return userID, id, true
}
