// Package apperrors carries the pipeline error taxonomy: input errors are
// user-caused and surfaced directly, dependency errors are system-caused and
// recorded in error_logs, notification errors only downgrade email_status,
// and persistence errors are fatal with best-effort logging.
package apperrors

import "fmt"

type Category string

const (
	CategoryInput        Category = "input"
	CategoryDependency   Category = "dependency"
	CategoryNotification Category = "notification"
	CategoryPersistence  Category = "persistence"
)

// Error is a classified failure from one pipeline stage.
type Error struct {
	Category Category
	Stage    string
	Status   int // HTTP-equivalent status for the transport layer
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewInput(stage string, status int, message string, err error) *Error {
	return &Error{Category: CategoryInput, Stage: stage, Status: status, Message: message, Err: err}
}

func NewDependency(stage, message string, err error) *Error {
	return &Error{Category: CategoryDependency, Stage: stage, Status: 422, Message: message, Err: err}
}

func NewNotification(stage, message string, err error) *Error {
	return &Error{Category: CategoryNotification, Stage: stage, Status: 200, Message: message, Err: err}
}

func NewPersistence(stage, message string, err error) *Error {
	return &Error{Category: CategoryPersistence, Stage: stage, Status: 500, Message: message, Err: err}
}
