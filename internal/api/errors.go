package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slidearchitect/internal/apperr"
)

// statusFor maps an error kind onto its HTTP status
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput, apperr.KindInvalidTemplate:
		return http.StatusBadRequest
	case apperr.KindReferenceOutOfBounds, apperr.KindUpstreamSchema:
		return http.StatusUnprocessableEntity
	case apperr.KindUpstreamInvalid:
		return http.StatusBadGateway
	case apperr.KindUpstreamRateLimited:
		return http.StatusTooManyRequests
	case apperr.KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the localized message of its kind. The
// technical message goes to details.
func (s *Server) writeError(c echo.Context, lang string, err error) error {
	e := apperr.As(err)
	l := language(lang)
	if l == "" {
		l = s.language
	}

	details := e.Message
	if e.Details != "" {
		details = fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return c.JSON(statusFor(e.Kind), errorResponse{
		Error: errorBody{
			Code:    e.Kind,
			Message: apperr.UserMessage(e.Kind, l),
			Details: details,
		},
	})
}

// handleHTTPError renders echo's own errors (404, 413, panics) in the same shape
func (s *Server) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	kind := apperr.KindUnknown
	msg := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		msg = fmt.Sprint(he.Message)
		if code < http.StatusInternalServerError {
			kind = apperr.KindInvalidInput
		}
	}

	if code >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("unhandled error")
	}
	if err := c.JSON(code, errorResponse{
		Error: errorBody{Code: kind, Message: apperr.UserMessage(kind, s.language), Details: msg},
	}); err != nil {
		s.log.Error().Err(err).Msg("failed to write error response")
	}
}
