package ota

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riegerindustries/diskomator/internal/flash"
)

type fakeResetter struct {
	calls int
}

func (f *fakeResetter) Reset(_ context.Context) {
	f.calls++
}

func TestBeginWithoutHashRejected(t *testing.T) {
	// Invariant 6: Begin without prior ota_hash set -> reject, stays IDLE.
	var st = New(flash.NewMemPartitions(), &fakeResetter{}, nil)

	var err = st.Begin(context.Background())
	require.ErrorIs(t, err, ErrNoHash)
	assert.Equal(t, StatusIdle, st.Status())
}

// S4: OTA happy path.
func TestHappyPathS4(t *testing.T) {
	var reset = &fakeResetter{}
	var st = New(flash.NewMemPartitions(), reset, nil)

	var hash = sha256.Sum256([]byte("abc"))
	require.NoError(t, st.SetExpectedHash(hash[:]))

	var ctx = context.Background()
	require.NoError(t, st.Begin(ctx))
	assert.Equal(t, StatusInProgress, st.Status())

	require.NoError(t, st.WriteData(ctx, []byte("abc")))
	require.NoError(t, st.Commit(ctx))

	assert.Equal(t, StatusSuccess, st.Status())
	assert.Equal(t, 1, reset.calls)
}

// S5: OTA hash mismatch.
func TestHashMismatchS5(t *testing.T) {
	var reset = &fakeResetter{}
	var st = New(flash.NewMemPartitions(), reset, nil)

	var hash = sha256.Sum256([]byte("abc"))
	require.NoError(t, st.SetExpectedHash(hash[:]))

	var ctx = context.Background()
	require.NoError(t, st.Begin(ctx))
	require.NoError(t, st.WriteData(ctx, []byte("abd")))

	var err = st.Commit(ctx)
	require.ErrorIs(t, err, ErrHashMismatch)
	assert.Equal(t, StatusError, st.Status())
	assert.Equal(t, 0, reset.calls)
}

// Invariant 8 / S4-adjacent: abort on disconnect, no Commit succeeds
// without a fresh Begin afterward.
func TestAbortThenCommitRejected(t *testing.T) {
	var st = New(flash.NewMemPartitions(), &fakeResetter{}, nil)

	var hash = sha256.Sum256([]byte("abc"))
	require.NoError(t, st.SetExpectedHash(hash[:]))

	var ctx = context.Background()
	require.NoError(t, st.Begin(ctx))
	require.NoError(t, st.WriteData(ctx, []byte("ab")))

	st.Abort(ctx)
	assert.Equal(t, StatusIdle, st.Status())

	var err = st.Commit(ctx)
	require.ErrorIs(t, err, ErrNotReceiving)
}

func TestStatusNotificationsFireOnEveryTransition(t *testing.T) {
	var transitions []Status
	var st = New(flash.NewMemPartitions(), &fakeResetter{}, func(s Status) {
		transitions = append(transitions, s)
	})

	var hash = sha256.Sum256([]byte("x"))
	require.NoError(t, st.SetExpectedHash(hash[:]))

	var ctx = context.Background()
	require.NoError(t, st.Begin(ctx))
	require.NoError(t, st.WriteData(ctx, []byte("x")))
	require.NoError(t, st.Commit(ctx))

	assert.Equal(t, []Status{StatusInProgress, StatusSuccess}, transitions)
}

func TestWriteDataFailurePropagatesToError(t *testing.T) {
	var st = New(flash.NewMemPartitions(), &fakeResetter{}, nil)

	var hash = sha256.Sum256([]byte("x"))
	require.NoError(t, st.SetExpectedHash(hash[:]))

	var ctx = context.Background()
	require.NoError(t, st.Begin(ctx))

	// Simulate a flash failure by swapping in a writer that always errors.
	st.writer = failingWriter{}

	var err = st.WriteData(ctx, []byte("x"))
	require.Error(t, err)
	assert.Equal(t, StatusError, st.Status())
}

type failingWriter struct{}

func (failingWriter) Write(context.Context, []byte) error {
	return assert.AnError
}

func (failingWriter) Commit(context.Context) error { return nil }
func (failingWriter) Abort(context.Context) error  { return nil }
