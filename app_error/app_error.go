package app_error

import (
	"errors"
	"net/http"

	"gala/logging"

	"github.com/gin-gonic/gin"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
)

var kindStatus = map[Kind]int{
	KindValidation: http.StatusBadRequest,
	KindConflict:   http.StatusConflict,
	KindNotFound:   http.StatusNotFound,
	KindForbidden:  http.StatusForbidden,
}

type statusError struct {
	error
	kind   Kind
	status int
}

func (e statusError) Unwrap() error {
	return e.error
}

func (e statusError) HTTPStatus() int {
	return e.status
}

func (e statusError) Kind() Kind {
	return e.kind
}

func newError(kind Kind, msg string) error {
	return statusError{error: errors.New(msg), kind: kind, status: kindStatus[kind]}
}

func Validation(msg string) error { return newError(KindValidation, msg) }
func Conflict(msg string) error   { return newError(KindConflict, msg) }
func NotFound(msg string) error   { return newError(KindNotFound, msg) }
func Forbidden(msg string) error  { return newError(KindForbidden, msg) }

// KindOf returns the kind of a taxonomy error anywhere in the chain, or "" for unexpected errors.
func KindOf(err error) Kind {
	var se statusError
	if errors.As(err, &se) {
		return se.kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func WithHTTPStatus(c *gin.Context, err error, status int) {
	c.JSON(status, gin.H{"error": err.Error()})
}

var errInternal = errors.New("internal server error")

// Respond writes err using the status of its kind. The body carries only the message the
// taxonomy error was created with; context wrapped around it is not sent. Errors outside
// the taxonomy are logged and answered with a generic 500.
func Respond(c *gin.Context, err error) {
	var se statusError
	if errors.As(err, &se) {
		WithHTTPStatus(c, se, se.status)
		return
	}
	logging.Log.WithField("path", c.FullPath()).WithError(err).Error("request failed")
	WithHTTPStatus(c, errInternal, http.StatusInternalServerError)
}
