package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HTTPErrorHandler renders errors as ErrorBody. Internal causes attached with
// SetInternal are logged and never written to the client.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := ErrorBody{Error: "internal server error"}
		cause := err

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			cause = he.Internal
			switch m := he.Message.(type) {
			case ErrorBody:
				body = m
			case string:
				body = ErrorBody{Error: m}
			case error:
				body = ErrorBody{Error: m.Error()}
			default:
				body = ErrorBody{Error: http.StatusText(code)}
			}
		}

		if code >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			evt := logger.Error().Str("request_id", rid).Int("status", code)
			if cause != nil {
				evt = evt.Err(cause)
			}
			evt.Msg(body.Error)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.Error().Err(err).Msg("write error response")
		}
	}
}
