package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidText     = errors.New("invalid text")
	ErrInvalidColor    = errors.New("invalid color")
	ErrInvalidDropKind = errors.New("invalid drop kind")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrNotFound        = errors.New("not found")
)
