package pull

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every *ConfigError returned from New.
	ErrInvalidConfig = errors.New("pull: invalid config")
	// ErrSessionOpen is returned when an action is started while another
	// session on the same list has not resolved yet.
	ErrSessionOpen = errors.New("pull: session already open")
	// ErrActionPanicked marks an outcome whose action panicked.
	ErrActionPanicked = errors.New("pull: action panicked")
	// ErrClosed is returned once the component has been torn down.
	ErrClosed = errors.New("pull: closed")
)

// ConfigError names the offending Config field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pull: invalid config: %s = %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
