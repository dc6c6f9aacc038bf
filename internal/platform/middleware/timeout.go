package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestTimeout bounds each request with a context deadline. The handler
// writes into a buffer that reaches the client only if it finishes in time;
// otherwise the client gets a 504 and the late output is discarded. The
// middleware always waits for the handler, so nothing touches the context
// after it returns.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if timeout <= 0 {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			orig := c.Response()
			buf := newBufferedWriter(orig.Header())
			c.SetResponse(echo.NewResponse(buf, c.Echo()))

			done := make(chan handlerResult, 1)
			go func() {
				var res handlerResult
				defer func() {
					if r := recover(); r != nil {
						res.panicked = r
					}
					done <- res
				}()
				res.err = next(c)
			}()

			var res handlerResult
			timedOut := false
			select {
			case res = <-done:
			case <-ctx.Done():
				timedOut = errors.Is(ctx.Err(), context.DeadlineExceeded)
				if timedOut {
					writeTimeout(orig)
				}
				res = <-done
			}
			c.SetResponse(orig)

			// Re-raised here so Recovery sees handler panics.
			if res.panicked != nil {
				panic(res.panicked)
			}
			if timedOut {
				return nil
			}
			buf.flushTo(orig)
			return res.err
		}
	}
}

type handlerResult struct {
	err      error
	panicked interface{}
}

func writeTimeout(w *echo.Response) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	w.WriteHeader(http.StatusGatewayTimeout)
	json.NewEncoder(w).Encode(ErrorBody{Error: "request timed out"})
	http.NewResponseController(w.Writer).Flush()
}

// bufferedWriter holds a handler's response until the middleware decides
// whether to send it.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter(h http.Header) *bufferedWriter {
	return &bufferedWriter{header: h.Clone()}
}

func (w *bufferedWriter) Header() http.Header { return w.header }

func (w *bufferedWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(b)
}

// flushTo copies headers even when nothing was written, so an error returned
// by the handler is rendered with the headers it set.
func (w *bufferedWriter) flushTo(r *echo.Response) {
	dst := r.Header()
	for k, v := range w.header {
		dst[k] = v
	}
	if w.status == 0 {
		return
	}
	r.WriteHeader(w.status)
	r.Write(w.body.Bytes())
}
