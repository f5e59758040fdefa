// Package apperr carries the typed failures the core returns to callers.
// Handlers translate a Kind into an HTTP status and the code into the
// `{"error": "CODE"}` payload the frontend expects.
package apperr

import "errors"

type Kind int

const (
	// NotFound: the referenced class/lesson day/period/student does not
	// exist — or, for student/parent actors, exists outside their
	// visibility scope (they must not learn it exists).
	NotFound Kind = iota + 1
	// Forbidden: an admin/teacher actor lacks access to the class. These
	// roles are aware the class exists, so this is not masked as NotFound.
	Forbidden
	// Conflict: uniqueness violated (duplicate LessonDay for class+date,
	// duplicate username, ...).
	Conflict
	// InvalidInput: malformed date, out-of-range period index, invalid
	// mark value, broken payload.
	InvalidInput
)

type Error struct {
	Kind Kind
	Code string // stable UPPER_SNAKE code, e.g. LESSON_DAY_EXISTS
	Err  error  // optional cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

func Wrap(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

// KindOf extracts the Kind from err, 0 when err is not an apperr.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// CodeOf extracts the stable code from err, "" when err is not an apperr.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Common instances shared across packages.
var (
	ErrClassNotFound     = New(NotFound, "CLASS_NOT_FOUND")
	ErrLessonDayNotFound = New(NotFound, "LESSON_DAY_NOT_FOUND")
	ErrPeriodNotFound    = New(NotFound, "PERIOD_NOT_FOUND")
	ErrStudentNotFound   = New(NotFound, "STUDENT_NOT_FOUND")
	ErrTeacherNotFound   = New(NotFound, "TEACHER_NOT_FOUND")
	ErrTestNotFound      = New(NotFound, "TEST_NOT_FOUND")
	ErrForbidden         = New(Forbidden, "FORBIDDEN")
	ErrLessonDayExists   = New(Conflict, "LESSON_DAY_EXISTS")
	ErrInvalidDate       = New(InvalidInput, "INVALID_DATE")
	ErrInvalidPeriodIdx  = New(InvalidInput, "INVALID_PERIOD_INDEX")
	ErrInvalidMark       = New(InvalidInput, "INVALID_MARK")
)
