package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrAttemptCompleted     = errors.New("attempt already completed")
	ErrQuestionNotInSection = errors.New("question does not belong to the current section")
	ErrUnknownExamType      = errors.New("unknown exam type")
	ErrBankSourceUnreached  = errors.New("exercise bank source unreachable")
)
