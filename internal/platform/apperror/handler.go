package apperror

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// errorBody is the JSON envelope for error responses.
type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// HTTPErrorHandler maps the error taxonomy onto HTTP status codes.
// Unrecognized errors become 500s and are logged with their request id.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := errorBody{Message: "internal server error"}

		var (
			ve  *ValidationError
			ce  *ConflictError
			nfe *NotFoundError
			se  *StoreError
			he  *echo.HTTPError
		)
		switch {
		case errors.As(err, &ve):
			status = http.StatusBadRequest
			body = errorBody{Message: ve.Detail, Field: ve.Field}
		case errors.As(err, &ce):
			status = http.StatusConflict
			body = errorBody{Message: ce.Detail}
		case errors.As(err, &nfe):
			status = http.StatusNotFound
			body = errorBody{Message: nfe.Error()}
		case errors.As(err, &se):
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(se).Str("request_id", rid).Msg("store error")
		case errors.As(err, &he):
			status = he.Code
			if msg, ok := he.Message.(string); ok {
				body = errorBody{Message: msg}
			}
		default:
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).Str("request_id", rid).Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
