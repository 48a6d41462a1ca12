package pages

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/shared/server/middleware"
	"findmydreamjobs/internal/shared/server/respond"
)

// Page describes a signed-in screen and the API routes it reads from.
type Page struct {
	Path  string   `json:"path"`
	Title string   `json:"title"`
	APIs  []string `json:"apis"`
}

// Protected lists every page that requires a session.
var Protected = []Page{
	{Path: "/dashboard", Title: "Dashboard", APIs: []string{"/api/dashboard"}},
	{Path: "/upload", Title: "Upload Resume", APIs: []string{"/api/resumes"}},
	{Path: "/analyze", Title: "Analyze Job", APIs: []string{"/api/jobs/analyze", "/api/wizard"}},
	{Path: "/match", Title: "Match Score", APIs: []string{"/api/match-score", "/api/resumes", "/api/jobs"}},
	{Path: "/optimize", Title: "Optimize Resume", APIs: []string{"/api/optimize/prepare", "/api/optimize"}},
	{Path: "/apply", Title: "Apply Job", APIs: []string{"/api/applications"}},
	{Path: "/applications", Title: "Applications", APIs: []string{"/api/applications"}},
	{Path: "/stats", Title: "Application Stats", APIs: []string{"/api/applications/stats"}},
	{Path: "/wizard", Title: "Resume Wizard", APIs: []string{"/api/wizard", "/api/wizard/step"}},
	{Path: "/matches", Title: "Matches", APIs: []string{"/api/matches"}},
	{Path: "/jobs", Title: "Jobs", APIs: []string{"/api/jobs/search", "/api/jobs/board", "/api/jdi/candidates"}},
	{Path: "/jdi/setup", Title: "Job Discovery Setup", APIs: []string{"/api/jdi/setup", "/api/integrations/gmail"}},
	{Path: "/ats", Title: "ATS Score", APIs: []string{"/api/resumes/:id/ats-score"}},
	{Path: "/finalize", Title: "Finalize Resume", APIs: []string{"/api/resumes/:id/download", "/api/resumes/:id/approve"}},
}

// RegisterRoutes mounts the page routes behind the session guard.
func RegisterRoutes(r gin.IRouter) {
	guarded := r.Group("", middleware.RequireSession())
	for _, p := range Protected {
		guarded.GET(p.Path, render(p))
	}
}

func render(p Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := middleware.IdentityFromContext(c)
		params := gin.H{}
		for k, v := range c.Request.URL.Query() {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}
		respond.JSON(c, http.StatusOK, gin.H{
			"page":   p,
			"params": params,
			"user": gin.H{
				"id":    id.UserID,
				"email": id.Email,
				"name":  id.Name,
			},
		})
	}
}
