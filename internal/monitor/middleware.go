package monitor

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/ankproject/ank-api/internal/errors"
	"github.com/ankproject/ank-api/internal/responses"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

var httpLogger = NewModuleLogger("http_monitor")

const maxSnippetLen = 500

type responseRecorder struct {
	StatusCode int
	Body       *bytes.Buffer

	headerMap   http.Header
	wroteHeader bool
}

func (rr *responseRecorder) Header() http.Header {
	if rr.headerMap == nil {
		rr.headerMap = make(http.Header)
	}
	return rr.headerMap
}

func (rr *responseRecorder) Write(buf []byte) (int, error) {
	rr.WriteHeader(http.StatusOK)
	if rr.Body == nil {
		rr.Body = new(bytes.Buffer)
	}
	rr.Body.Write(buf)
	return len(buf), nil
}

func (rr *responseRecorder) WriteHeader(code int) {
	if rr.wroteHeader {
		return
	}
	rr.StatusCode = code
	rr.wroteHeader = true
}

func (rr *responseRecorder) snippet() string {
	if rr.Body == nil {
		return ""
	}
	s := rr.Body.String()
	if len(s) > maxSnippetLen {
		s = s[:maxSnippetLen]
	}
	return s
}

func (rr *responseRecorder) send(w http.ResponseWriter) {
	h := w.Header()
	for k, vals := range rr.Header() {
		for _, v := range vals {
			h.Add(k, v)
		}
	}

	if rr.StatusCode > 0 {
		w.WriteHeader(rr.StatusCode)
	}

	if rr.Body != nil {
		w.Write(rr.Body.Bytes())
	}
}

// ErrorLoggingMiddleware intercepts panics and server error responses from http handlers,
// handles them in a graceful way, logs and sends them to Sentry
func ErrorLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(r)
		ctx := sentry.SetHubOnContext(r.Context(), hub)

		// Record response from next handler, recovering any panics therein
		recorder := &responseRecorder{}
		recoveredErr := func() (err error) {
			defer errors.Recover(&err)
			next.ServeHTTP(recorder, r.WithContext(ctx))
			return err
		}()

		if recoveredErr == nil {
			if recorder.StatusCode >= http.StatusInternalServerError {
				recordRequestError(r, recorder)
			}
			recorder.send(w)
			return
		}

		recordPanic(recoveredErr, r, recorder)

		detail := responses.InternalErrorMessage
		if !IsProduction {
			detail = recoveredErr.Error()
		}
		responses.Detail(w, http.StatusInternalServerError, detail)
	})
}

func recordRequestError(r *http.Request, rec *responseRecorder) {
	err := errors.Err("handler responded with an error")
	httpLogger.WithFields(logrus.Fields{
		"method":   r.Method,
		"url":      r.URL.Path,
		"status":   rec.StatusCode,
		"response": rec.snippet(),
	}).Error(err)

	ErrorToSentry(err, map[string]string{
		"method":   r.Method,
		"url":      r.URL.Path,
		"status":   fmt.Sprintf("%d", rec.StatusCode),
		"response": rec.snippet(),
	})
}

func recordPanic(err error, r *http.Request, rec *responseRecorder) {
	httpLogger.WithFields(logrus.Fields{
		"method":   r.Method,
		"url":      r.URL.Path,
		"status":   rec.StatusCode,
		"response": rec.snippet(),
	}).Error(fmt.Errorf("RECOVERED PANIC: %v, trace: %s", err, errors.Trace(err)))

	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.Recover(err)
}
