// Package handler implements the HTTP endpoints of the API. Every endpoint
// responds with the same envelope regardless of outcome, so clients can
// always read statusCode/isSuccess/errorMessages/result from the body.
package handler

import "github.com/labstack/echo/v4"

// APIResponse is the uniform result wrapper of the API.
type APIResponse struct {
	StatusCode    int      `json:"statusCode"`
	IsSuccess     bool     `json:"isSuccess"`
	ErrorMessages []string `json:"errorMessages"`
	Result        any      `json:"result,omitempty"`
}

// ok writes a success envelope with the given payload.
func ok(c echo.Context, status int, result any) error {
	return c.JSON(status, APIResponse{
		StatusCode:    status,
		IsSuccess:     true,
		ErrorMessages: []string{},
		Result:        result,
	})
}

// fail writes a failure envelope carrying the error messages.
func fail(c echo.Context, status int, msgs ...string) error {
	if msgs == nil {
		msgs = []string{}
	}
	return c.JSON(status, APIResponse{
		StatusCode:    status,
		IsSuccess:     false,
		ErrorMessages: msgs,
	})
}
