// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrAnswerNotFound signals that a referenced
// answer does not exist.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// reserved for another user, such as accepting an answer on a
// question they did not ask. Handlers should translate this into
// an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrQuestionNotFound indicates that a question was not located in the DB.
var ErrQuestionNotFound = errors.New("question not found")

// ErrAnswerNotFound indicates that an answer was not located in the DB.
var ErrAnswerNotFound = errors.New("answer not found")

// ErrNoChange indicates a partial update carried no fields at all.
// Handlers translate this into an HTTP 400 response.
var ErrNoChange = errors.New("no change")
