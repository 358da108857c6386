package usecase

import (
	"errors"
	"fmt"
)

// ValidationError marks a malformed raw record. The normalizer drops the
// record and keeps going; it never aborts the batch.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigurationError means a required external capability is missing (no
// send transport, no search API key). It is surfaced immediately and halts
// the run before any attempt.
type ConfigurationError struct {
	Code    string
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// TransientSendError wraps a send capability failure. The message is
// recorded as ERROR and the lead stage left unchanged; the draft can be
// recreated for a manual retry.
type TransientSendError struct {
	Destination string
	Err         error
}

func (e *TransientSendError) Error() string {
	return fmt.Sprintf("send to %s failed: %v", e.Destination, e.Err)
}

func (e *TransientSendError) Unwrap() error {
	return e.Err
}
