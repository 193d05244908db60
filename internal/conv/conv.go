package conv

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned when a value does not fit in the target type.
var ErrOverflow = errors.New("integer overflow")

// Integer is any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// To converts v to T, failing if the value changes in the conversion.
func To[T, F Integer](v F) (T, error) {
	t := T(v)
	if F(t) != v || (t < 0) != (v < 0) {
		return 0, fmt.Errorf("%w: %d cannot be converted to %T", ErrOverflow, v, t)
	}
	return t, nil
}
