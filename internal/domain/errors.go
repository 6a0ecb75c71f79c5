package domain

import "errors"

var (
	ErrSecretNotFound     = errors.New("secret not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrFileTooLarge       = errors.New("File size must be less than 5MB")
	ErrFileTypeNotAllowed = errors.New("Only JavaScript, JSON, or text files are allowed")
	ErrEmptySubmission    = errors.New("Please enter code or select a file")
)
