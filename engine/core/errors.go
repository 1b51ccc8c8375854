package core

import (
	"errors"
)

var ErrUnsupportedBackend = errors.New("unsupported renderer backend")
