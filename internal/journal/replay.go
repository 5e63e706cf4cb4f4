package journal

import (
	"context"
	"fmt"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

// Movement is one ledger transfer recovered from the journal, in commit
// order. Folding movements over initial balances reproduces ledger state.
type Movement struct {
	Amount uint64
	From   escrow.Account
	To     escrow.Account
}

// RebuildResult is the registry state recovered from a journal fold.
type RebuildResult struct {
	// Allocations is the reconstructed allocation store.
	Allocations map[uint64]escrow.Allocation

	// LastID is the identifier allocator position (highest id created).
	LastID uint64

	// LastSeq is the highest logical sequence seen; a restored registry
	// resumes event numbering from here.
	LastSeq int64

	// Movements lists every executed transfer in commit order.
	Movements []Movement
}

// Rebuild folds the journal into registry state. Events record the
// resulting absolute value of every changed field, so the fold applies
// values rather than re-evaluating guards; a rebuilt store is exactly the
// store that produced the journal.
func (j *Journal) Rebuild(ctx context.Context) (*RebuildResult, error) {
	records, err := j.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}

	result := &RebuildResult{
		Allocations: make(map[uint64]escrow.Allocation),
	}

	for _, rec := range records {
		ev := rec.Event
		if ev.Seq > result.LastSeq {
			result.LastSeq = ev.Seq
		}

		moves, err := movementsOf(ev)
		if err != nil {
			return nil, fmt.Errorf("rebuild: event %s: %w", rec.ID, err)
		}
		result.Movements = append(result.Movements, moves...)

		switch ev.Op {
		case escrow.OpCreate:
			a, err := allocationFromCreate(ev)
			if err != nil {
				return nil, fmt.Errorf("rebuild: event %s: %w", rec.ID, err)
			}
			result.Allocations[a.ID] = a
			if a.ID > result.LastID {
				result.LastID = a.ID
			}

		default:
			a, ok := result.Allocations[ev.AllocationID]
			if !ok {
				return nil, fmt.Errorf("rebuild: event %s references unknown allocation %d", rec.ID, ev.AllocationID)
			}
			applyMutation(&a, ev)
			result.Allocations[ev.AllocationID] = a
		}
	}

	return result, nil
}

// allocationFromCreate reconstructs the initial record from a create event.
func allocationFromCreate(ev escrow.Event) (escrow.Allocation, error) {
	originator, err := stringField(ev.Fields, "originator")
	if err != nil {
		return escrow.Allocation{}, err
	}
	beneficiary, err := stringField(ev.Fields, "beneficiary")
	if err != nil {
		return escrow.Allocation{}, err
	}
	resource, err := intField(ev.Fields, "resource")
	if err != nil {
		return escrow.Allocation{}, err
	}
	quantity, err := intField(ev.Fields, "quantity")
	if err != nil {
		return escrow.Allocation{}, err
	}
	genesis, err := intField(ev.Fields, "genesis")
	if err != nil {
		return escrow.Allocation{}, err
	}
	termination, err := intField(ev.Fields, "termination")
	if err != nil {
		return escrow.Allocation{}, err
	}

	return escrow.Allocation{
		ID:               ev.AllocationID,
		Originator:       escrow.Account(originator),
		Beneficiary:      escrow.Account(beneficiary),
		ResourceID:       uint64(resource),
		Quantity:         uint64(quantity),
		Status:           ev.Status,
		GenesisBlock:     uint64(genesis),
		TerminationBlock: uint64(termination),
	}, nil
}

// applyMutation applies one event's recorded field values to a record.
// Audit-only events carry no recognized fields and change nothing but keep
// the recorded status, which equals the stored one.
func applyMutation(a *escrow.Allocation, ev escrow.Event) {
	a.Status = ev.Status

	if v, err := intField(ev.Fields, "quantity"); err == nil {
		a.Quantity = uint64(v)
	}
	if v, err := intField(ev.Fields, "termination"); err == nil {
		a.TerminationBlock = uint64(v)
	}
	if v, err := intField(ev.Fields, "unlock_height"); err == nil {
		a.UnlockHeight = uint64(v)
	}
	if v, err := stringField(ev.Fields, "originator"); err == nil {
		a.Originator = escrow.Account(v)
	}
}

// movementsOf extracts the executed transfers recorded on an event.
func movementsOf(ev escrow.Event) ([]Movement, error) {
	raw, ok := ev.Fields["transfers"]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("transfers field is not a list")
	}

	moves := make([]Movement, 0, len(list))
	for i, elem := range list {
		entry, ok := elem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("transfers[%d] is not an object", i)
		}
		amount, err := intField(entry, "amount")
		if err != nil {
			return nil, fmt.Errorf("transfers[%d]: %w", i, err)
		}
		from, err := stringField(entry, "from")
		if err != nil {
			return nil, fmt.Errorf("transfers[%d]: %w", i, err)
		}
		to, err := stringField(entry, "to")
		if err != nil {
			return nil, fmt.Errorf("transfers[%d]: %w", i, err)
		}
		moves = append(moves, Movement{
			Amount: uint64(amount),
			From:   escrow.Account(from),
			To:     escrow.Account(to),
		})
	}
	return moves, nil
}

func stringField(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", key)
	}
	return s, nil
}

func intField(fields map[string]any, key string) (int64, error) {
	v, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("field %q is not an integer", key)
	}
	return n, nil
}
