package source

import (
	"errors"
	"fmt"
)

var (
	ErrResolve    = errors.New("resolve failed")
	ErrInvalidURL = fmt.Errorf("%w: invalid url", ErrResolve)
)
