// Package httperr maps core errors to HTTP responses.
package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/LeeyaD/phonebook-server/internal/domain/apperr"
	"github.com/LeeyaD/phonebook-server/pkg/metrics"
	"github.com/LeeyaD/phonebook-server/pkg/response"
)

const internalMessage = "internal server error"

// Status returns the HTTP status for err.
func Status(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindMalformedID, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindAuthentication, apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err. Internal causes are
// never exposed.
func Message(err error) string {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		return internalMessage
	}
	return e.Message
}

// Write responds with {"error": msg} and aborts. Internal errors are logged
// with their cause.
func Write(c *gin.Context, logger *logrus.Logger, err error) {
	status := Status(err)

	kind, code := apperr.KindInternal, "unknown"
	if e, ok := apperr.As(err); ok {
		kind, code = e.Kind, e.Code
	}
	metrics.DomainErrorsTotal.WithLabelValues(string(kind), code).Inc()

	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}).Error("request failed")
	}
	response.Error(c, status, Message(err))
}
