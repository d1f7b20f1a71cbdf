package projection

import "errors"

// ErrInvalidInput is returned for any input or configuration outside its stated bounds.
var ErrInvalidInput = errors.New("invalid projection input")
