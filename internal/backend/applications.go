package backend

import (
	"context"
	"net/http"
	"net/url"
)

// Applications lists a user's applications. A 404 is an empty list.
func (c *Client) Applications(ctx context.Context, userID int64) ([]Application, error) {
	out := []Application{}
	err := c.doJSON(ctx, http.MethodGet, "/applications/"+itoa(userID), nil, nil, &out)
	if IsNotFound(err) {
		return []Application{}, nil
	}
	return out, err
}

func (c *Client) SubmitApplication(ctx context.Context, req SubmitApplicationRequest) (Message, error) {
	var out Message
	err := c.doJSON(ctx, http.MethodPost, "/submit-application", nil, req, &out)
	return out, err
}

// UpdateApplicationStatus sends the status both as query and JSON body, as
// the backend reads either.
func (c *Client) UpdateApplicationStatus(ctx context.Context, applicationID int64, status string) (Message, error) {
	var out Message
	q := url.Values{
		"application_id": {itoa(applicationID)},
		"status":         {status},
	}
	body := map[string]any{"application_id": applicationID, "status": status}
	err := c.doJSON(ctx, http.MethodPut, "/update-application-status", q, body, &out)
	return out, err
}
