package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Veraticus/spendora/internal/common"
)

// requestError is a client fault detected before the core is called.
type requestError struct {
	err     error
	message string
	status  int
}

func (e *requestError) Error() string { return e.message + ": " + e.err.Error() }

func (e *requestError) Unwrap() error { return e.err }

func malformed(err error) error {
	return &requestError{status: http.StatusBadRequest, message: "Request is invalid or malformed", err: err}
}

// errorHandler renders every error as an ErrorResponse.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.classify(err)
	body.Path = c.Request().URL.Path
	body.Timestamp = time.Now().UTC()

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request().Method,
			"path", body.Path,
			"error", err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		s.logger.Error("failed to write error response", "error", writeErr)
	}
}

func (s *Server) classify(err error) (int, ErrorResponse) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.status, ErrorResponse{
			Code:    CodeBadRequest,
			Message: reqErr.message,
			Details: []string{reqErr.err.Error()},
		}
	}

	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{
			Code:    CodeBadRequest,
			Message: common.UserMessage(err),
			Details: []string{},
		}
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Code:    CodeNotFound,
			Message: common.UserMessage(err),
			Details: []string{},
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
		code := CodeBadRequest
		if httpErr.Code == http.StatusNotFound {
			code = CodeNotFound
		}
		message := http.StatusText(httpErr.Code)
		if m, isString := httpErr.Message.(string); isString {
			message = m
		}
		return httpErr.Code, ErrorResponse{Code: code, Message: message, Details: []string{}}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Code:    CodeInternalError,
		Message: "Unexpected server error",
		Details: []string{},
	}
}
