package escrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidIdentifier(t *testing.T) {
	assert.False(t, ValidIdentifier(0, 10), "zero is never valid")
	assert.False(t, ValidIdentifier(11, 10), "beyond allocator position")
	assert.True(t, ValidIdentifier(1, 10))
	assert.True(t, ValidIdentifier(10, 10), "last issued is valid")
	assert.False(t, ValidIdentifier(1, 0), "nothing issued yet")
}

func TestWithinDeadlineAndLapsed(t *testing.T) {
	assert.True(t, WithinDeadline(99, 100))
	assert.True(t, WithinDeadline(100, 100), "boundary block is inside the window")
	assert.False(t, WithinDeadline(101, 100))

	// IsLapsed is the exact complement.
	for _, now := range []uint64{0, 99, 100, 101, 200} {
		assert.Equal(t, !WithinDeadline(now, 100), IsLapsed(now, 100), "now=%d", now)
	}
}

func TestValidBeneficiary(t *testing.T) {
	assert.True(t, ValidBeneficiary("bob", "alice", "vault"))
	assert.False(t, ValidBeneficiary("", "alice", "vault"))
	assert.False(t, ValidBeneficiary("alice", "alice", "vault"), "self-escrow")
	assert.False(t, ValidBeneficiary("vault", "alice", "vault"), "custodian as beneficiary")
}

func TestRecentAttestation(t *testing.T) {
	assert.True(t, RecentAttestation(100, 100, 10), "current height")
	assert.True(t, RecentAttestation(100, 90, 10), "window boundary")
	assert.False(t, RecentAttestation(100, 89, 10), "too old")
	assert.False(t, RecentAttestation(100, 101, 10), "future attestation")
}

func TestStatusIn(t *testing.T) {
	assert.True(t, StatusIn(StatusPending, []Status{StatusPending, StatusAccepted}))
	assert.False(t, StatusIn(StatusFrozen, []Status{StatusPending, StatusAccepted}))
	assert.False(t, StatusIn(StatusPending, nil))
}
