package printapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrorKind categorizes photo service failures so callers can decide
// whether an order may already exist on the other side.
type ErrorKind int

const (
	// KindConnection means the service could not be reached at all.
	KindConnection ErrorKind = iota
	// KindAuth means the service rejected our credentials.
	KindAuth
	// KindUnavailable means a server-side outage (5xx).
	KindUnavailable
	// KindRejected means the service understood the request and refused it.
	KindRejected
)

// APIError represents a classified photo service failure.
type APIError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyTransportError maps a failed round trip to a user-facing
// connection error. Context cancellation passes through untouched so an
// interrupt is not reported as a network problem.
func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	timedOut := errors.As(err, &netErr) && netErr.Timeout()

	errLower := strings.ToLower(err.Error())
	switch {
	case timedOut || strings.Contains(errLower, "timeout") || strings.Contains(errLower, "deadline exceeded"):
		log.Error().Err(err).Msg("Connection timed out")
		return &APIError{Kind: KindConnection, Message: "Connection timed out. Please try again", Err: err}
	default:
		log.Error().Err(err).Msg("Connection to the photo service failed")
		return &APIError{Kind: KindConnection, Message: "Could not connect to the photo service. Please check your internet connection", Err: err}
	}
}

// classifyServiceError maps an error envelope or a non-200 status to a
// user-facing failure. The service reports bad API keys inside a 200
// response with errCode 403, so the envelope is checked first.
func classifyServiceError(status int, env envelope) *APIError {
	if env.ErrCode != "" {
		if env.ErrCode == "403" || strings.Contains(env.ErrMsg, "Key doesn't Exists") {
			log.Error().Str("errCode", env.ErrCode).Str("errMsg", env.ErrMsg).Msg("API key authentication failed")
			return &APIError{Kind: KindAuth, Message: "Invalid API credentials. Please check your config file"}
		}
		log.Error().Str("errCode", env.ErrCode).Str("errMsg", env.ErrMsg).Msg("Photo service returned an error")
		return &APIError{Kind: KindRejected, Message: fmt.Sprintf("API error %s: %s", env.ErrCode, env.ErrMsg)}
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		log.Error().Int("statusCode", status).Msg("Authentication failed")
		return &APIError{Kind: KindAuth, Message: "Invalid API credentials. Please check your config file"}
	case status >= 500:
		log.Error().Int("statusCode", status).Msg("Photo service unavailable")
		return &APIError{Kind: KindUnavailable, Message: "The photo service is currently unavailable. Please try again later"}
	default:
		log.Error().Int("statusCode", status).Msg("Unexpected response status")
		return &APIError{Kind: KindRejected, Message: fmt.Sprintf("API request failed with status %d", status)}
	}
}

// kindForStatus classifies a blob upload status code.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status >= 500:
		return KindUnavailable
	default:
		return KindRejected
	}
}

// reasonString extracts the human-readable part of an upload failure for
// the per-image rejection report.
func reasonString(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
