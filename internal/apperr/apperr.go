package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the error taxonomy bucket
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindExternalService Kind = "external_service"
	KindConfiguration   Kind = "configuration"
)

type Error struct {
	Kind Kind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on code so wrapped instances compare equal to their sentinel
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

func New(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

// Sentinels
var (
	ErrInvalidAnswerCount = New(KindValidation, "InvalidAnswerCount", nil)
	ErrInvalidAnswerValue = New(KindValidation, "InvalidAnswerValue", nil)
	ErrScoreOutOfRange    = New(KindValidation, "ScoreOutOfRange", nil)
	ErrAssessmentComplete = New(KindValidation, "AssessmentComplete", nil)
	ErrAssessmentNotReady = New(KindValidation, "AssessmentNotReady", nil)
	ErrEmptyMessage       = New(KindValidation, "EmptyMessage", nil)
	ErrUnknownTask        = New(KindValidation, "UnknownTask", nil)
	ErrInvalidTier        = New(KindValidation, "InvalidTier", nil)
	ErrSessionNotFound    = New(KindNotFound, "SessionNotFound", nil)

	// A stored session moved on since it was loaded; reload and retry
	ErrVersionConflict = New(KindConflict, "VersionConflict", nil)

	ErrSignalExtractionFailed = New(KindExternalService, "SignalExtractionFailed", nil)
	ErrReplyFailed            = New(KindExternalService, "ReplyFailed", nil)

	ErrEmptyCatalogForTier = New(KindConfiguration, "EmptyCatalogForTier", nil)
	ErrInvalidConfig       = New(KindConfiguration, "InvalidConfig", nil)
)

// Wrap returns a new error carrying the sentinel's kind and code plus a detail message
func Wrap(sentinel *Error, format string, args ...interface{}) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Err: fmt.Errorf(format, args...)}
}

// Cause returns a new error carrying the sentinel's kind and code around err
func Cause(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Err: err}
}

// KindOf returns the taxonomy bucket of err, or "" if it is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf returns the code of err, or "" if it is not an *Error
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus maps an error to a response status
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
