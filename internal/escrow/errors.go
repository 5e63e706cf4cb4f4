package escrow

import (
	"errors"
	"fmt"
)

// Code categorizes guard violations. Every failed precondition maps to
// exactly one code, so callers can branch on the code without parsing
// messages and the guard pipeline stays auditable.
type Code string

const (
	// CodeUnauthorized means the calling account is not in the operation's
	// allowed-actor set for this allocation.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeNotFound means no allocation record exists for the identifier.
	CodeNotFound Code = "NOT_FOUND"

	// CodeAlreadyProcessed means the allocation's current status is not in
	// the operation's allowed pre-state set.
	CodeAlreadyProcessed Code = "ALREADY_PROCESSED"

	// CodeMovementFailed means the external ledger rejected a transfer.
	// The store is left unmodified.
	CodeMovementFailed Code = "MOVEMENT_FAILED"

	// CodeInvalidIdentifier means the identifier is zero or beyond the
	// allocator's last-issued value.
	CodeInvalidIdentifier Code = "INVALID_IDENTIFIER"

	// CodeInvalidQuantity means a quantity, percentage, height or threshold
	// parameter is zero, out of range, or would break conservation.
	CodeInvalidQuantity Code = "INVALID_QUANTITY"

	// CodeInvalidParty means a party parameter is self-referential or
	// collides with another role (e.g. beneficiary == originator).
	CodeInvalidParty Code = "INVALID_PARTY"

	// CodeLapsed marks a temporal guard violation. Details carry whether the
	// deadline already passed or has not yet been reached.
	CodeLapsed Code = "LAPSED"

	// CodeVerificationFailed means a signature or attestation check failed.
	CodeVerificationFailed Code = "VERIFICATION_FAILED"
)

// Error is the structured error returned by every registry operation.
// All errors are returned values, never panics: each failure is a normal
// outcome the caller is expected to handle.
type Error struct {
	// Code identifies which precondition failed.
	Code Code

	// Message is a human-readable description.
	Message string

	// Op is the operation that rejected the call.
	Op Op

	// AllocationID is the affected allocation, zero for create-time failures.
	AllocationID uint64

	// Details carries additional context (actor, status, amounts).
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.AllocationID != 0 {
		return fmt.Sprintf("%s: %s: %s (allocation=%d)", e.Op, e.Code, e.Message, e.AllocationID)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
}

// CodeOf extracts the error code from err, unwrapping as needed.
// Returns "" if err is nil or not a registry error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

func newError(code Code, op Op, id uint64, msg string, details map[string]string) *Error {
	return &Error{Code: code, Message: msg, Op: op, AllocationID: id, Details: details}
}

func errUnauthorized(op Op, id uint64, actor Account) *Error {
	return newError(CodeUnauthorized, op, id, "actor not in allowed-actor set",
		map[string]string{"actor": string(actor)})
}

func errNotFound(op Op, id uint64) *Error {
	return newError(CodeNotFound, op, id, "allocation does not exist", nil)
}

func errAlreadyProcessed(op Op, id uint64, status Status) *Error {
	return newError(CodeAlreadyProcessed, op, id, "status not in allowed pre-state set",
		map[string]string{"status": string(status)})
}

func errMovementFailed(op Op, id uint64, cause error) *Error {
	return newError(CodeMovementFailed, op, id, "ledger transfer rejected",
		map[string]string{"cause": cause.Error()})
}

func errInvalidIdentifier(op Op, id uint64) *Error {
	return newError(CodeInvalidIdentifier, op, id, "identifier zero or never issued", nil)
}

func errInvalidQuantity(op Op, id uint64, msg string) *Error {
	return newError(CodeInvalidQuantity, op, id, msg, nil)
}

func errInvalidParty(op Op, id uint64, msg string) *Error {
	return newError(CodeInvalidParty, op, id, msg, nil)
}

func errLapsed(op Op, id uint64, reason string) *Error {
	return newError(CodeLapsed, op, id, "temporal guard violated",
		map[string]string{"reason": reason})
}

func errVerificationFailed(op Op, id uint64, msg string) *Error {
	return newError(CodeVerificationFailed, op, id, msg, nil)
}
