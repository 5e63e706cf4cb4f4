package escrow

// Guard library: pure, side-effect-free predicates used by every transition.
//
// The transition engine composes these in a fixed order (identifier validity,
// existence, authorization, status membership, temporal validity, then
// numeric checks) so returned error codes are deterministic and stable.

// ValidIdentifier reports whether id could ever have been issued: non-zero
// and not beyond the allocator's last-issued value. Identifiers are assigned
// sequentially from 1 and never recycled, so any id in (0, lastIssued] is
// structurally valid even though the record lookup may still miss.
func ValidIdentifier(id, lastIssued uint64) bool {
	return id != 0 && id <= lastIssued
}

// StatusIn reports whether s is a member of set.
func StatusIn(s Status, set []Status) bool {
	for _, member := range set {
		if s == member {
			return true
		}
	}
	return false
}

// WithinDeadline reports whether now is inside the allocation's active
// window. The deadline block itself is still active.
func WithinDeadline(now, deadline uint64) bool {
	return now <= deadline
}

// IsLapsed reports whether the deadline has passed.
// By definition IsLapsed == !WithinDeadline; both exist so call sites read
// as the guard they enforce.
func IsLapsed(now, deadline uint64) bool {
	return now > deadline
}

// ValidBeneficiary reports whether candidate may receive an allocation
// funded by originator: non-empty, not the originator itself, and not the
// registry's custodian account.
func ValidBeneficiary(candidate, originator, custodian Account) bool {
	return candidate != "" && candidate != originator && candidate != custodian
}

// RecentAttestation reports whether an attested height is acceptable:
// not in the future and within window blocks of now.
func RecentAttestation(now, attested, window uint64) bool {
	if attested > now {
		return false
	}
	return now-attested <= window
}
