package api

import "fmt"

// MissingFieldError reports that a required structural field was absent
// from the input document. It aborts the single extraction call and is
// never retried.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("input must be a parse containing a %q field", e.Field)
}

// ConfigurationError reports an invalid construction parameter. It is
// raised at construction time, before any extraction occurs.
type ConfigurationError struct {
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid extractor configuration: %s %s", e.Param, e.Reason)
}
