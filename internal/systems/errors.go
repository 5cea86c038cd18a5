package systems

import "errors"

var (
	ErrSystemNotFound = errors.New("system not registered")
	ErrSystemExists   = errors.New("system already registered")
)
