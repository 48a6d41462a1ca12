package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func userQuery(userID int64) url.Values {
	return url.Values{"user_id": {itoa(userID)}}
}

func (c *Client) Candidates(ctx context.Context, userID int64, q CandidateQuery) (JDICandidateFeed, error) {
	params := userQuery(userID)
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.MinScore != nil {
		params.Set("min_score", strconv.Itoa(*q.MinScore))
	}
	if q.UnreadOnly {
		params.Set("unread_only", "true")
	}
	if q.ReadOnly {
		params.Set("read_only", "true")
	}
	if q.Source != "" {
		params.Set("source", q.Source)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	var out JDICandidateFeed
	err := c.doJSON(ctx, http.MethodGet, "/api/jdi/candidates", params, nil, &out)
	if out.Candidates == nil {
		out.Candidates = []JDICandidate{}
	}
	return out, err
}

func (c *Client) Candidate(ctx context.Context, userID int64, candidateID string) (JDICandidateDetail, error) {
	var out JDICandidateDetail
	err := c.doJSON(ctx, http.MethodGet, "/api/jdi/candidates/"+url.PathEscape(candidateID), userQuery(userID), nil, &out)
	return out, err
}

func (c *Client) MarkCandidateSeen(ctx context.Context, userID int64, candidateID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/jdi/candidates/"+url.PathEscape(candidateID)+"/mark-seen", userQuery(userID), nil, nil)
}

func (c *Client) IgnoreCandidate(ctx context.Context, userID int64, candidateID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/jdi/candidates/"+url.PathEscape(candidateID)+"/ignore", userQuery(userID), nil, nil)
}

// PromoteCandidate turns a candidate into a job. mode is save or analyze.
func (c *Client) PromoteCandidate(ctx context.Context, userID int64, candidateID, mode string) (PromoteResult, error) {
	var out PromoteResult
	err := c.doJSON(ctx, http.MethodPost, "/api/jdi/candidates/"+url.PathEscape(candidateID)+"/promote", userQuery(userID), map[string]string{"mode": mode}, &out)
	return out, err
}

func (c *Client) RunJDI(ctx context.Context, userID int64, windowHours int) (JDIRunResult, error) {
	var out JDIRunResult
	err := c.doJSON(ctx, http.MethodPost, "/api/jdi/run", userQuery(userID), map[string]int{"window_hours": windowHours}, &out)
	return out, err
}

func (c *Client) GmailConnectURL(ctx context.Context, userID int64) (string, error) {
	var out struct {
		AuthorizationURL string `json:"authorization_url"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/integrations/gmail/connect", userQuery(userID), nil, &out)
	return out.AuthorizationURL, err
}

// GmailStatus returns nil when Gmail has never been connected.
func (c *Client) GmailStatus(ctx context.Context, userID int64) (*GmailStatus, error) {
	var out GmailStatus
	err := c.doJSON(ctx, http.MethodGet, "/api/integrations/gmail/status", userQuery(userID), nil, &out)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RevokeGmail(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, http.MethodPost, "/api/integrations/gmail/revoke", userQuery(userID), nil, nil)
}

// Profile returns nil when the user has no profile yet.
func (c *Client) Profile(ctx context.Context, userID int64) (*UserProfile, error) {
	var out UserProfile
	err := c.doJSON(ctx, http.MethodGet, "/api/profile/"+itoa(userID), nil, nil, &out)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (UserProfile, error) {
	var out UserProfile
	err := c.doJSON(ctx, http.MethodPut, "/api/profile/"+itoa(userID), nil, update, &out)
	return out, err
}
