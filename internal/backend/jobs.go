package backend

import (
	"context"
	"net/http"
	"net/url"
)

// ParseJobDescription stores a job from pasted text or a link.
func (c *Client) ParseJobDescription(ctx context.Context, req ParseJobRequest) (Job, error) {
	var out Job
	err := c.doJSON(ctx, http.MethodPost, "/parse-job-description", nil, req, &out)
	return out, err
}

func (c *Client) Job(ctx context.Context, jobID int64) (Job, error) {
	var out Job
	err := c.doJSON(ctx, http.MethodGet, "/jobs/"+itoa(jobID), nil, nil, &out)
	return out, err
}

func (c *Client) UpdateJob(ctx context.Context, jobID int64, update JobUpdate) (Job, error) {
	var out Job
	err := c.doJSON(ctx, http.MethodPut, "/jobs/"+itoa(jobID), nil, update, &out)
	return out, err
}

func (c *Client) AllJobs(ctx context.Context) ([]Job, error) {
	out := []Job{}
	err := c.doJSON(ctx, http.MethodGet, "/jobs/all", nil, nil, &out)
	return out, err
}

// JobsByUser lists the user's jobs. A 404 is an empty list.
func (c *Client) JobsByUser(ctx context.Context, userID int64) ([]Job, error) {
	out := []Job{}
	err := c.doJSON(ctx, http.MethodGet, "/jobs/by-user/"+itoa(userID), nil, nil, &out)
	if IsNotFound(err) {
		return []Job{}, nil
	}
	return out, err
}

func (c *Client) SearchJobs(ctx context.Context, query string) (SearchResponse, error) {
	var out SearchResponse
	err := c.doJSON(ctx, http.MethodGet, "/search-jobs", url.Values{"query": {query}}, nil, &out)
	if out.Results == nil {
		out.Results = []SearchResult{}
	}
	return out, err
}

func (c *Client) AnalyzeSearchedJob(ctx context.Context, req AnalyzeSearchedJobRequest) (Job, error) {
	var out Job
	err := c.doJSON(ctx, http.MethodPost, "/analyze-searched-job", nil, req, &out)
	return out, err
}
