package history

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced by the engine and its stores. Controllers map
// them to HTTP status codes; nothing below this layer retries.
var (
	// ErrNotFound covers both a missing record and a record owned by
	// another user. The two cases are deliberately indistinguishable so
	// that ids cannot be probed for existence.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyValidated rejects a second submission for a record whose
	// unvalidated -> validated transition already happened.
	ErrAlreadyValidated = errors.New("record already validated")

	// ErrSchemaUnsupported means a validation write was attempted against
	// a store whose schema does not carry the validation columns yet.
	ErrSchemaUnsupported = errors.New("validation columns missing: run the pending reading-validation migration")
)

// PayloadError reports every violated field rule of a validation
// submission in one batch.
type PayloadError struct {
	Violations []string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid validation payload: %s", strings.Join(e.Violations, "; "))
}
