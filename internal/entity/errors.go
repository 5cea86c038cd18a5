package entity

import "errors"

var (
	ErrUnknownKind    = errors.New("entity kind not registered")
	ErrKindExists     = errors.New("entity kind already registered")
	ErrEntityNotFound = errors.New("entity not found")
)
