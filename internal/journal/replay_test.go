package journal

import (
	"context"
	"reflect"
	"testing"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
	"github.com/zelrocks/harmony-protocol/internal/ledger"
	"github.com/zelrocks/harmony-protocol/internal/testutil"
)

// Drives a live registry with the journal as its audit sink, then rebuilds
// from the journal and checks the rebuilt store and replayed ledger match
// the live ones exactly.
func TestRebuild_ReproducesLiveState(t *testing.T) {
	j := openTestJournal(t)
	clock := testutil.NewManualClock(10)
	live := ledger.New("vault", map[escrow.Account]uint64{"alice": 1000, "bob": 500})

	registry := escrow.New(live, clock, testutil.ScriptedVerifier{Signer: "bob"}, j, escrow.Policy{
		Supervisor:   "sup",
		AttestWindow: 100,
		HoldDuration: 50,
		MaxPriority:  5,
	}, escrow.WithOriginGenerator(escrow.NewFixedGenerator("replay-origin")))

	a1, err := registry.Create("alice", "bob", 7, 500, 100)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := registry.Accept(a1.ID, "bob"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := registry.TopUp(a1.ID, "alice", 100); err != nil {
		t.Fatalf("top-up: %v", err)
	}
	if _, err := registry.ReleasePartial(a1.ID, "alice", 200); err != nil {
		t.Fatalf("release-partial: %v", err)
	}
	if _, err := registry.Challenge(a1.ID, "bob"); err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if _, err := registry.Arbitrate(a1.ID, "sup", 50); err != nil {
		t.Fatalf("arbitrate: %v", err)
	}
	// Audit-only records must not disturb the fold.
	if err := registry.VerifyTwoFactor(a1.ID, "bob", 10); err == nil {
		t.Fatal("verify-2fa on arbitrated allocation should fail")
	}

	a2, err := registry.Create("alice", "bob", 8, 100, 200)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	// Successful audit-only records land in the journal but are neutral in
	// the fold.
	if err := registry.SetPriority(a2.ID, "alice", 3); err != nil {
		t.Fatalf("priority: %v", err)
	}
	if _, err := registry.Timelock(a2.ID, "alice", 50); err != nil {
		t.Fatalf("timelock: %v", err)
	}

	rb, err := j.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if rb.LastID != registry.LastID() {
		t.Errorf("LastID = %d, want %d", rb.LastID, registry.LastID())
	}
	if len(rb.Allocations) != 2 {
		t.Fatalf("rebuilt %d allocations, want 2", len(rb.Allocations))
	}
	for id := uint64(1); id <= 2; id++ {
		want, err := registry.Get(id)
		if err != nil {
			t.Fatalf("Get(%d): %v", id, err)
		}
		got := rb.Allocations[id]
		if !reflect.DeepEqual(want, got) {
			t.Errorf("allocation %d:\n rebuilt %+v\n live    %+v", id, got, want)
		}
	}

	// Replaying the recorded movements over the initial balances must
	// reproduce the live ledger.
	replayed := ledger.New("vault", map[escrow.Account]uint64{"alice": 1000, "bob": 500})
	for _, m := range rb.Movements {
		if err := replayed.Transfer(m.Amount, m.From, m.To); err != nil {
			t.Fatalf("replay movement %+v: %v", m, err)
		}
	}
	for _, acct := range []escrow.Account{"alice", "bob", "vault"} {
		if replayed.Balance(acct) != live.Balance(acct) {
			t.Errorf("%s: replayed %d, live %d", acct, replayed.Balance(acct), live.Balance(acct))
		}
	}

	// A registry restored from the rebuild continues seamlessly.
	restored := escrow.New(replayed, clock, testutil.ScriptedVerifier{}, testutil.NewCollectSink(), escrow.Policy{
		Supervisor: "sup",
	},
		escrow.WithState(rb.Allocations, rb.LastID),
		escrow.WithSequence(escrow.NewSequenceAt(rb.LastSeq)),
		escrow.WithOriginGenerator(escrow.NewFixedGenerator("restored-origin")),
	)
	clock.SetHeight(60)
	claimed, err := restored.Claim(a2.ID, "bob")
	if err != nil {
		t.Fatalf("claim after restore: %v", err)
	}
	if claimed.Status != escrow.StatusRetrieved {
		t.Errorf("claim status = %s, want retrieved", claimed.Status)
	}
}

func TestRebuild_EmptyJournal(t *testing.T) {
	j := openTestJournal(t)

	rb, err := j.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if rb.LastID != 0 || rb.LastSeq != 0 || len(rb.Allocations) != 0 || len(rb.Movements) != 0 {
		t.Errorf("empty journal rebuilt to %+v", rb)
	}
}

func TestRebuild_UnknownAllocationFails(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	ev := testEvent(1, escrow.OpAccept, escrow.StatusAccepted, nil)
	ev.AllocationID = 9
	if _, err := j.WriteEvent(ctx, ev); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := j.Rebuild(ctx); err == nil {
		t.Error("Rebuild should fail on a mutation of an unknown allocation")
	}
}
