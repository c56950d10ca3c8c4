package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrUnknownReference is returned when a write points at a user or listing
// row that does not exist. Users are provisioned by the auth service, so a
// valid token does not guarantee a users row.
var ErrUnknownReference = errors.New("referenced row does not exist")

const foreignKeyViolation = pq.ErrorCode("23503")

// classify maps driver errors that callers act on to repository errors.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %s", ErrUnknownReference, pqErr.Constraint)
	}
	return err
}
