package scenario

import "errors"

// ErrConfiguration covers every invalid scenario input: unsupported driver
// type, missing driver parameters, empty segment or threshold lists. Wrapped
// errors carry the detail; match with errors.Is.
var ErrConfiguration = errors.New("scenario: invalid configuration")
