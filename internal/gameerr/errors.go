// Package gameerr defines the error kinds returned by the game engine.
//
// Every error that leaves a service matches exactly one of the sentinel
// kinds through errors.Is, so callers (HTTP handlers, CLI) can map it to a
// response without inspecting messages.
package gameerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed input rejected before any write.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown session, question, team or category.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientQuestions marks an allocation that could not draw a full board.
	ErrInsufficientQuestions = errors.New("insufficient questions")
	// ErrConflict marks a state-guarded rejection (already scored, help already used).
	ErrConflict = errors.New("conflict")
	// ErrPersistence marks a failure of the underlying store.
	ErrPersistence = errors.New("persistence failure")
)

var kinds = []error{
	ErrValidation,
	ErrNotFound,
	ErrInsufficientQuestions,
	ErrConflict,
	ErrPersistence,
}

// Error is a kinded error with a human readable detail.
type Error struct {
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Validation returns an ErrValidation error.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Detail: fmt.Sprintf(format, args...)}
}

// NotFound returns an ErrNotFound error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Detail: fmt.Sprintf(format, args...)}
}

// Conflict returns an ErrConflict error.
func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Detail: fmt.Sprintf(format, args...)}
}

// Persistence wraps a store failure for the named operation. Errors that
// already carry a kind are returned unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != nil {
		return err
	}
	return &Error{Kind: ErrPersistence, Detail: op, Err: err}
}

// Kind returns the sentinel kind matched by err, or nil.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Shortfall describes one category that could not supply a full bundle.
type Shortfall struct {
	CategoryID   int    `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Easy         int    `json:"easyAvailable"`
	Medium       int    `json:"mediumAvailable"`
	Hard         int    `json:"hardAvailable"`
}

// InsufficientQuestionsError names every category that failed allocation.
type InsufficientQuestionsError struct {
	Categories []Shortfall
}

func (e *InsufficientQuestionsError) Error() string {
	names := make([]string, 0, len(e.Categories))
	for _, c := range e.Categories {
		name := c.CategoryName
		if name == "" {
			name = fmt.Sprintf("#%d", c.CategoryID)
		}
		names = append(names, fmt.Sprintf("%s (easy %d, medium %d, hard %d)", name, c.Easy, c.Medium, c.Hard))
	}
	return fmt.Sprintf("categories without enough available questions: %s", strings.Join(names, ", "))
}

func (e *InsufficientQuestionsError) Is(target error) bool {
	return target == ErrInsufficientQuestions
}
