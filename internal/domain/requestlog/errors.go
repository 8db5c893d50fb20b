package requestlog

import "errors"

// ErrInvalidInput indicates a nil or incomplete entry.
var ErrInvalidInput = errors.New("invalid request log input")
