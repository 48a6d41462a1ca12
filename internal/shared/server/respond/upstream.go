package respond

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// NetworkErrorMessage is shown when the backend could not be reached.
const NetworkErrorMessage = "❌ Network error. Please try again."

// statusClientClosed is the de facto status for a client that went away.
const statusClientClosed = 499

// UpstreamError is implemented by errors returned from the REST backend.
// StatusCode is 0 when no response was received.
type UpstreamError interface {
	error
	StatusCode() int
	DetailText() string
}

// Upstream writes the error envelope for a failed backend call. The message
// is the backend detail when present, else fallback.
func Upstream(c *gin.Context, err error, fallback string) {
	if errors.Is(err, context.Canceled) {
		Error(c, statusClientClosed, "client_closed", "request canceled", nil)
		return
	}

	var upstream UpstreamError
	if !errors.As(err, &upstream) {
		Error(c, http.StatusInternalServerError, "internal_error", withMark(fallback), nil)
		return
	}

	status := upstream.StatusCode()
	detail := strings.TrimSpace(upstream.DetailText())
	message := detail
	if message == "" {
		message = fallback
	}

	switch {
	case status == 0:
		Error(c, http.StatusBadGateway, "backend_unavailable", NetworkErrorMessage, nil)
	case status >= 500:
		Error(c, http.StatusBadGateway, "backend_error", withMark(message), nil)
	default:
		Error(c, status, codeFor(status), withMark(message), nil)
	}
}

// Message returns the user-facing text Upstream would send for err.
func Message(err error, fallback string) string {
	var upstream UpstreamError
	if errors.As(err, &upstream) {
		if upstream.StatusCode() == 0 {
			return NetworkErrorMessage
		}
		if detail := strings.TrimSpace(upstream.DetailText()); detail != "" {
			return withMark(detail)
		}
	}
	return withMark(fallback)
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_error"
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return "upstream_error"
	}
}

func withMark(message string) string {
	if strings.HasPrefix(message, "❌") || strings.HasPrefix(message, "⚠️") {
		return message
	}
	return "❌ " + message
}
