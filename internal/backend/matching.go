package backend

import (
	"context"
	"net/http"
)

func (c *Client) MatchScore(ctx context.Context, req MatchRequest) (MatchScore, error) {
	var out MatchScore
	err := c.doJSON(ctx, http.MethodPost, "/match-score", nil, req, &out)
	return out, err
}

// Matches lists match history for a user. A 404 is an empty list.
func (c *Client) Matches(ctx context.Context, userID int64) ([]Match, error) {
	out := []Match{}
	err := c.doJSON(ctx, http.MethodGet, "/matches/"+itoa(userID), nil, nil, &out)
	if IsNotFound(err) {
		return []Match{}, nil
	}
	return out, err
}

func (c *Client) OptimizeResume(ctx context.Context, req OptimizeRequest) (OptimizeResult, error) {
	var out OptimizeResult
	err := c.doJSON(ctx, http.MethodPost, "/optimize-resume", nil, req, &out)
	return out, err
}
