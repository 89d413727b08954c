package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

type NotFoundError struct {
	What string
	ID   any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found (%v)", e.What, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError is a lifecycle violation, e.g. editing a submitted submission.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ValidationError reports input the caller can correct. QuestionIDs names the
// offending questions of a patch batch; MissingQuestionIDs lists unmet
// required questions on finalize, in sort order.
type ValidationError struct {
	Message            string
	QuestionIDs        []int64
	MissingQuestionIDs []int64
	Err                error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + strings.TrimSpace(e.Err.Error())
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
