package failure

import (
	"errors"
	"net/http"
)

// Failure pairs a message with the HTTP status the handler should
// answer with. Services return it directly; response.WithError and
// GetCode unwrap it at the edge.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	InvalidPageParam        = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
	InvalidLimitParam       = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
	ForbiddenError          = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
	ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}
)

func (e *Failure) Error() string {
	return e.Message
}

func coded(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

// BadRequest wraps err as a 400 failure; a nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return coded(http.StatusBadRequest, err.Error())
}

// BadRequestFromString returns a 400 failure with the given message.
func BadRequestFromString(msg string) error {
	return coded(http.StatusBadRequest, msg)
}

// Unauthorized returns a 401 failure with the given message.
func Unauthorized(msg string) error {
	return coded(http.StatusUnauthorized, msg)
}

// InternalError wraps err as a 500 failure; a nil err stays nil.
func InternalError(err error) error {
	if err == nil {
		return nil
	}

	return coded(http.StatusInternalServerError, err.Error())
}

// Unimplemented returns a 501 failure naming the missing method.
func Unimplemented(methodName string) error {
	return coded(http.StatusNotImplemented, methodName)
}

// NotFound returns a 404 failure naming the missing entity.
func NotFound(entityName string) error {
	return coded(http.StatusNotFound, entityName)
}

// Conflict returns a 409 failure with the given message.
func Conflict(message string) error {
	return coded(http.StatusConflict, message)
}

// Forbidden returns a 403 failure with the given message.
func Forbidden(msg string) error {
	return coded(http.StatusForbidden, msg)
}

// GetCode extracts the HTTP status from err, defaulting to 500 for
// anything that is not a Failure.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
