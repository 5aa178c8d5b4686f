// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates an unexpected failure that is not the user's fault.
var ErrInternal = errors.New("internal")
