package util

import "errors"

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidQuality    = errors.New("quality must be between 0 and 5")
	ErrInvalidTag        = errors.New("tag must not be empty")
	ErrInvalidOption     = errors.New("option index out of range")
	ErrEmptyQuestionText = errors.New("question text must not be empty")
	ErrNoQuestions       = errors.New("no questions available")
	ErrInvalidBackup     = errors.New("invalid backup payload")
)
