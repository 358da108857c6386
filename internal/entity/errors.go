package entity

import (
	"errors"
	"fmt"
)

// NotFoundError is returned by store operations on unknown ids. It is fatal
// to that single operation only and never aborts a batch.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
