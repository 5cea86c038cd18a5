package dice

import "errors"

var ErrInvalidPool = errors.New("invalid dice pool")
