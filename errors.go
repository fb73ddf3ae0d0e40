package hexagondb

import "errors"

var (
	ErrWrongType        = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")
	ErrNotInteger       = errors.New("value is not an integer or out of range")
	ErrIncrDecrOverflow = errors.New("increment or decrement would overflow")
)
