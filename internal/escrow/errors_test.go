package escrow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	err := errUnauthorized(OpFinalize, 3, "mallory")
	assert.Equal(t, CodeUnauthorized, CodeOf(err))
	assert.True(t, IsCode(err, CodeUnauthorized))
	assert.False(t, IsCode(err, CodeNotFound))

	// Wrapped errors still resolve.
	wrapped := fmt.Errorf("cli: %w", err)
	assert.Equal(t, CodeUnauthorized, CodeOf(wrapped))

	assert.Equal(t, Code(""), CodeOf(nil))
	assert.Equal(t, Code(""), CodeOf(fmt.Errorf("plain")))
}

func TestError_Message(t *testing.T) {
	err := errAlreadyProcessed(OpAccept, 7, StatusCompleted)
	assert.Contains(t, err.Error(), "accept")
	assert.Contains(t, err.Error(), "ALREADY_PROCESSED")
	assert.Contains(t, err.Error(), "allocation=7")
	assert.Equal(t, "completed", err.Details["status"])

	// Create-time failures carry no allocation id.
	cerr := errInvalidQuantity(OpCreate, 0, "quantity must be positive")
	assert.NotContains(t, cerr.Error(), "allocation=")
}

func TestErrLapsed_Reason(t *testing.T) {
	early := errLapsed(OpReclaim, 1, "deadline_not_reached")
	late := errLapsed(OpFinalize, 1, "deadline_passed")
	assert.Equal(t, CodeLapsed, early.Code)
	assert.Equal(t, CodeLapsed, late.Code)
	assert.Equal(t, "deadline_not_reached", early.Details["reason"])
	assert.Equal(t, "deadline_passed", late.Details["reason"])
}
