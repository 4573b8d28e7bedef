package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response body.
func CreateErrorResponse(code, message string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	return &resp
}

// SendError writes the standard error envelope with the given status.
func SendError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, CreateErrorResponse(code, message))
}

// SendClientError sends a 400 response.
func SendClientError(c echo.Context, message string) error {
	return SendError(c, http.StatusBadRequest, "CLIENT_ERROR", message)
}

// SendServerError sends a 500 response.
func SendServerError(c echo.Context, message string) error {
	return SendError(c, http.StatusInternalServerError, "SERVER_ERROR", message)
}
