package core

import (
	"errors"
	"fmt"
	"io"
)

// Error codes of application errors. Each layer maps them to its own
// notion of failure, e.g. backend/httpd to HTTP status codes.
const (
	NOERROR      int = 0
	EMISSING     int = 122 // resource does not exist
	EINVALID     int = 123 // validation failed
	EUNAVAILABLE int = 124 // backing store not reachable
	EINTERNAL    int = 125 // internal error
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid"
	case EUNAVAILABLE:
		return "unavailable"
	case EINTERNAL:
		return "internal error"
	}
	return "undefined error"
}

// AppError is an error carrying an error code and a message which is
// safe to show to clients.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// WrapError puts err into an application error with code and a client
// message. The cause stays reachable for errors.Is/As. A nil err is replaced
// by the code's default text.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code finds the first application error in err's chain and returns its
// code. Errors without one are internal; nil is NOERROR.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the client message of the first application error in
// err's chain, or the default text of err's code.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an application error without a cause.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// UserError prints err to w, preferring the user message of application errors.
func UserError(w io.Writer, err error) {
	if e := AppError(nil); errors.As(err, &e) {
		fmt.Fprintf(w, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err.Error())
}
