package backend

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// ResumesByUser lists the user's resumes. A 404 is an empty list.
func (c *Client) ResumesByUser(ctx context.Context, userID int64) ([]Resume, error) {
	var out []Resume
	err := c.doJSON(ctx, http.MethodGet, "/resumes/by-user/"+itoa(userID), nil, nil, &out)
	if IsNotFound(err) {
		return []Resume{}, nil
	}
	if out == nil && err == nil {
		out = []Resume{}
	}
	return out, err
}

func (c *Client) Resume(ctx context.Context, resumeID int64) (Resume, error) {
	var out Resume
	err := c.doJSON(ctx, http.MethodGet, "/resumes/"+itoa(resumeID), nil, nil, &out)
	return out, err
}

// UploadResume posts the file as multipart form data.
func (c *Client) UploadResume(ctx context.Context, userID int64, resumeName, fileName string, file io.Reader) (UploadResult, error) {
	var out UploadResult
	fields := map[string]string{
		"user_id":     itoa(userID),
		"resume_name": resumeName,
	}
	err := c.doMultipart(ctx, "/upload-resume", fields, "file", fileName, file, &out)
	return out, err
}

// Download is an open backend file response.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	Disposition string
	Length      int64
}

// DownloadResume streams the resume file. The caller closes Body.
func (c *Client) DownloadResume(ctx context.Context, resumeID int64) (Download, error) {
	resp, err := c.stream(ctx, http.MethodGet, "/download-resume/"+itoa(resumeID))
	if err != nil {
		return Download{}, err
	}
	return Download{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Disposition: resp.Header.Get("Content-Disposition"),
		Length:      resp.ContentLength,
	}, nil
}

func (c *Client) ApproveResume(ctx context.Context, resumeID int64) (Message, error) {
	var out Message
	err := c.doJSON(ctx, http.MethodPost, "/approve-resume", nil, map[string]int64{"resume_id": resumeID}, &out)
	return out, err
}

func (c *Client) ATSScore(ctx context.Context, resumeID int64) (ATSScore, error) {
	var out ATSScore
	q := url.Values{"resume_id": {itoa(resumeID)}}
	err := c.doJSON(ctx, http.MethodPost, "/ats-score", q, nil, &out)
	return out, err
}
