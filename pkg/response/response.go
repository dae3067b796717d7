package response

import (
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/storefront/storefront-service/pkg/errs"
)

// Debug makes error responses carry a stack trace. Set once at startup from
// the environment; must stay off in production.
var Debug bool

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors"`
	Trace   string      `json:"trace,omitempty"`
}

func WriteSuccessResponse(c echo.Context, message string, data interface{}) error {
	return writeSuccess(c, http.StatusOK, message, data)
}

// WriteCreatedResponse is WriteSuccessResponse with a 201 status.
func WriteCreatedResponse(c echo.Context, message string, data interface{}) error {
	return writeSuccess(c, http.StatusCreated, message, data)
}

// WriteSuccessResponseWithStatus lets the caller pick the status code while
// keeping the success envelope. Used by the category listing, which writes a
// 404 status without aborting the payload.
func WriteSuccessResponseWithStatus(c echo.Context, statusCode int, message string, data interface{}) error {
	return writeSuccess(c, statusCode, message, data)
}

func writeSuccess(c echo.Context, statusCode int, message string, data interface{}) error {
	resp := SuccessResponse{}
	resp.Status = "success"
	resp.Message = message
	resp.Data = data

	return c.JSON(statusCode, resp)
}

func WriteErrorResponse(c echo.Context, err error, errors interface{}) error {
	statusCode := errs.GetErrorStatusCode(err)
	resp := ErrorResponse{}
	resp.Status = "error"
	resp.Message = err.Error()
	resp.Errors = errors

	if Debug {
		resp.Trace = string(debug.Stack())
	}

	return c.JSON(statusCode, resp)
}
