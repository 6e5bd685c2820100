package types

import (
	"errors"
	"fmt"
)

var (
	ErrCacheMiss = errors.New("cache miss")
	ErrNoImage   = errors.New("no acceptable image found")
)

// ValidationError is returned for malformed input before any external call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ResolutionError means a named anchor could not be geocoded. No plan can be
// built without both anchors.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve location %q: %v", e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
