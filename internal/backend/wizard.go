package backend

import (
	"context"
	"net/http"
)

func (c *Client) SaveWizardProgress(ctx context.Context, email, step string) error {
	return c.doJSON(ctx, http.MethodPost, "/wizard/progress", nil, WizardProgress{Email: email, Step: step}, nil)
}

// LoadWizardProgress returns the stored step, or "" when none is recorded.
func (c *Client) LoadWizardProgress(ctx context.Context, email string) (string, error) {
	var out WizardProgress
	err := c.doJSON(ctx, http.MethodPost, "/wizard/progress/get", nil, WizardProgress{Email: email}, &out)
	if IsNotFound(err) {
		return "", nil
	}
	return out.Step, err
}
