package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

func TestManualClock(t *testing.T) {
	c := NewManualClock(10)
	assert.Equal(t, uint64(10), c.CurrentHeight())

	c.Advance(5)
	assert.Equal(t, uint64(15), c.CurrentHeight())

	c.SetHeight(20)
	assert.Equal(t, uint64(20), c.CurrentHeight())

	assert.Panics(t, func() { c.SetHeight(19) }, "the clock may not rewind")
}

func TestCollectSink(t *testing.T) {
	s := NewCollectSink()
	_, ok := s.Last()
	assert.False(t, ok)

	s.Emit(escrow.Event{Seq: 1})
	s.Emit(escrow.Event{Seq: 2})
	assert.Equal(t, 2, s.Len())

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, int64(2), last.Seq)

	events := s.Events()
	events[0].Seq = 99
	fresh := s.Events()
	assert.Equal(t, int64(1), fresh[0].Seq, "Events returns a copy")

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestFailingLedger(t *testing.T) {
	inner := &recordingLedger{}
	l := NewFailingLedger(inner, 2)

	require.NoError(t, l.Transfer(1, "a", "b"))
	assert.Error(t, l.Transfer(1, "a", "b"), "scripted failure on the second call")
	require.NoError(t, l.Transfer(1, "a", "b"))

	assert.Equal(t, 3, l.Calls())
	assert.Equal(t, 2, inner.calls, "the failed call never reaches the inner ledger")
}

type recordingLedger struct {
	calls int
}

func (l *recordingLedger) Transfer(amount uint64, from, to escrow.Account) error {
	l.calls++
	return nil
}

func (l *recordingLedger) CustodianAccount() escrow.Account { return "vault" }
