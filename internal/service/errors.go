package service

import "errors"

var (
	ErrIncomplete   = errors.New("proposal is incomplete")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)
