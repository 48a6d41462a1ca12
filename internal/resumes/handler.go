package resumes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/shared/server/middleware"
	"findmydreamjobs/internal/shared/server/respond"
)

const (
	msgChooseFile      = "Please choose a file before uploading."
	msgUploaded        = "Resume uploaded successfully!"
	msgDuplicate       = "Resume already uploaded."
	msgUnsupported     = "Only PDF, DOCX or TXT files are supported."
	msgTooLarge        = "File is too large. Maximum size is 10 MB."
	msgUnreadable      = "We couldn't read that file. Please upload a different copy."
	msgApproved        = "✅ Resume approved!"
	msgInvalidResumeID = "⚠️ Please enter a valid Resume ID (positive number)."
)

// formOverhead leaves room for multipart framing on top of the file limit.
const formOverhead = 1 << 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes", h.list)
	rg.POST("/resumes", h.upload)
	rg.GET("/resumes/:id", h.get)
	rg.GET("/resumes/:id/download", h.download)
	rg.POST("/resumes/:id/approve", h.approve)
	rg.POST("/resumes/:id/ats-score", h.atsScore)
}

func (h *Handler) list(c *gin.Context) {
	userID, err := middleware.BackendUserIDFromContext(c)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthenticated", middleware.WelcomeToast, nil)
		return
	}
	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Upstream(c, err, "Failed to load resumes.")
		return
	}
	archived, err := h.Svc.Archived(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list uploads", nil)
		return
	}
	respond.OK(c, gin.H{"resumes": items, "total": len(items), "uploads": archived})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	res, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respond.Upstream(c, err, "Resume not found.")
		return
	}
	respond.OK(c, res)
}

func (h *Handler) upload(c *gin.Context) {
	userID, err := middleware.BackendUserIDFromContext(c)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthenticated", middleware.WelcomeToast, nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+formOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respond.Invalid(c, msgTooLarge, nil)
			return
		}
		respond.Invalid(c, msgChooseFile, nil)
		return
	}
	if fileHeader.Size > MaxUploadSize {
		respond.Invalid(c, msgTooLarge, nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Invalid(c, msgUnreadable, nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respond.Invalid(c, msgUnreadable, nil)
		return
	}

	out, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		UserID:        middleware.UserIDFromContext(c),
		BackendUserID: userID,
		ResumeName:    c.PostForm("resume_name"),
		FileName:      fileHeader.Filename,
		Data:          data,
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrUnsupportedType):
		respond.Invalid(c, msgUnsupported, nil)
		return
	case errors.Is(err, ErrTooLarge):
		respond.Invalid(c, msgTooLarge, nil)
		return
	case errors.Is(err, ErrUnreadable):
		respond.Invalid(c, msgUnreadable, nil)
		return
	case errors.Is(err, ErrDuplicate):
		respond.Error(c, http.StatusConflict, "duplicate", msgDuplicate, nil)
		return
	default:
		respond.Upstream(c, err, "Upload failed.")
		return
	}

	if out.ResumeID != 0 {
		c.Set("resumeId", strconv.FormatInt(out.ResumeID, 10))
	}
	respond.Toast(c, http.StatusCreated, msgUploaded, gin.H{
		"resume_id": out.ResumeID,
		"message":   msgUploaded,
		"pages":     out.Pages,
		"archived":  out.Archived,
	})
}

func (h *Handler) download(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	f, err := h.Svc.Download(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		respond.Upstream(c, err, "Failed to download resume.")
		return
	}
	defer f.Body.Close()

	disposition := f.Disposition
	if disposition == "" || f.Archived {
		disposition = fmt.Sprintf("attachment; filename=%q", f.FileName)
	}
	c.Header("Content-Disposition", disposition)
	c.DataFromReader(http.StatusOK, f.Length, f.ContentType, f.Body, nil)
}

func (h *Handler) approve(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	msg, err := h.Svc.Approve(c.Request.Context(), id)
	if err != nil {
		respond.Upstream(c, err, "Failed to approve resume.")
		return
	}
	toast := msgApproved
	if strings.TrimSpace(msg.Message) != "" {
		toast = msg.Message
	}
	respond.Toast(c, http.StatusOK, toast, gin.H{"resume_id": id})
}

func (h *Handler) atsScore(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	score, err := h.Svc.ATSScore(c.Request.Context(), id)
	if err != nil {
		respond.Upstream(c, err, "Failed to fetch ATS score.")
		return
	}
	respond.OK(c, score)
}

// resumeID parses :id as a positive integer and records it for the request
// log.
func resumeID(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respond.Invalid(c, msgInvalidResumeID, nil)
		return 0, false
	}
	c.Set("resumeId", raw)
	return id, true
}
