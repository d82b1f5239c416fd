package draft

import "fmt"

// ValidationError reports an out-of-range or malformed input field. It is
// always surfaced before any draft state is mutated.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// NotFoundError reports a missing cube, draft, seat or card table index.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// AuthorizationError reports an ownership mismatch or a bad API key.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "unauthorized: " + e.Reason
}

// ReconciliationError reports an oracle-returned identity that matched
// neither the pool nor the basics set. It is recoverable: the card is dropped
// from the mainboard and the event reported for diagnostics.
type ReconciliationError struct {
	Identity string
}

func (e *ReconciliationError) Error() string {
	return "identity not in pool or basics: " + e.Identity
}
