package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"finance/internal/domain"
)

// Response represents a standardized API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// ErrorBody is the error member of a failed Response
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse sends a success response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// SuccessMessageResponse sends a success response with a message
func SuccessMessageResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// CreatedResponse sends a 201 Created response
func CreatedResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c echo.Context, statusCode int, message string, err interface{}) error {
	return c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
		Error:   err,
	})
}

// StatusForKind maps an error classification to its HTTP status
func StatusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInsufficientFunds, domain.KindInsufficientShares:
		return http.StatusUnprocessableEntity
	case domain.KindQuoteUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every error returned by a handler or middleware in the Response envelope
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorBody(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
		}).Error("ERROR: request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = ErrorResponse(c, status, body.Message, body)
	}
	if err != nil {
		log.WithError(err).Error("ERROR: failed to write error response")
	}
}

func errorBody(err error) (int, ErrorBody) {
	if e, ok := domain.AsError(err); ok {
		return StatusForKind(e.Kind), ErrorBody{Code: e.Code, Message: e.Message}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := "request_error"
		switch he.Code {
		case http.StatusNotFound:
			code = "route_not_found"
		case http.StatusMethodNotAllowed:
			code = "method_not_allowed"
		case http.StatusUnsupportedMediaType:
			code = "unsupported_media_type"
		case http.StatusBadRequest:
			code = "invalid_request"
		}
		return he.Code, ErrorBody{Code: code, Message: fmt.Sprint(he.Message)}
	}

	return http.StatusInternalServerError, ErrorBody{Code: "internal_error", Message: "internal error"}
}
