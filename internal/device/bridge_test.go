package device

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acquireAsync(b *Bridge, c Constraints) chan acquireAsyncResult {
	ch := make(chan acquireAsyncResult, 1)
	go func() {
		s, err := b.Acquire(context.Background(), c)
		ch <- acquireAsyncResult{stream: s, err: err}
	}()
	return ch
}

type acquireAsyncResult struct {
	stream Stream
	err    error
}

func waitPending(t *testing.T, b *Bridge) Constraints {
	t.Helper()
	var c Constraints
	require.Eventually(t, func() bool {
		var ok bool
		c, ok = b.PendingConstraints()
		return ok
	}, time.Second, time.Millisecond)
	return c
}

func TestBridgeAcquireGranted(t *testing.T) {
	b := NewBridge()
	done := acquireAsync(b, Constraints{Facing: FacingEnvironment})

	c := waitPending(t, b)
	assert.Equal(t, FacingEnvironment, c.Facing)

	require.NoError(t, b.Report(OutcomeGranted))

	res := <-done
	require.NoError(t, res.err)
	require.NotNil(t, res.stream)

	tracks := res.stream.Tracks()
	require.Len(t, tracks, 1)
	assert.Equal(t, "video", tracks[0].Kind())

	// The pending request is consumed.
	_, ok := b.PendingConstraints()
	assert.False(t, ok)
}

func TestBridgeAcquireFailureOutcomes(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    error
	}{
		{OutcomeUnsupported, ErrUnsupported},
		{OutcomeDenied, ErrPermissionDenied},
		{OutcomeNotFound, ErrNotFound},
		{OutcomeBusy, ErrBusy},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			b := NewBridge()
			done := acquireAsync(b, Constraints{Facing: FacingAny})
			waitPending(t, b)

			require.NoError(t, b.Report(tt.outcome))

			res := <-done
			assert.Nil(t, res.stream)
			assert.ErrorIs(t, res.err, tt.want)
		})
	}
}

func TestBridgeReportWithoutPending(t *testing.T) {
	b := NewBridge()
	assert.ErrorIs(t, b.Report(OutcomeGranted), ErrNoPendingRequest)
	assert.ErrorIs(t, b.Report("bogus"), ErrNoPendingRequest)

	// A stray grant must not install a stream no session owns.
	assert.ErrorIs(t, b.DeliverFrame(Frame{Bytes: []byte("x")}), ErrNoPendingRequest)
}

func TestBridgeUnknownOutcomeKeepsPending(t *testing.T) {
	b := NewBridge()
	done := acquireAsync(b, Constraints{Facing: FacingEnvironment})
	waitPending(t, b)

	err := b.Report("bogus")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPendingRequest)

	// The acquisition is still waiting and a correct report resolves it.
	_, ok := b.PendingConstraints()
	require.True(t, ok)
	require.NoError(t, b.Report(OutcomeGranted))

	res := <-done
	require.NoError(t, res.err)
	assert.NotNil(t, res.stream)
}

func TestBridgeAcquireCancelled(t *testing.T) {
	b := NewBridge()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := b.Acquire(ctx, Constraints{})
		done <- err
	}()
	waitPending(t, b)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// The abandoned request no longer blocks a fresh acquisition.
	require.Eventually(t, func() bool {
		_, ok := b.PendingConstraints()
		return !ok
	}, time.Second, time.Millisecond)
}

func TestBridgeSecondAcquireRejected(t *testing.T) {
	b := NewBridge()
	acquireAsync(b, Constraints{})
	waitPending(t, b)

	_, err := b.Acquire(context.Background(), Constraints{})
	assert.ErrorIs(t, err, ErrBusy)
}

func TestBridgeFrameDelivery(t *testing.T) {
	b := NewBridge()
	done := acquireAsync(b, Constraints{})
	waitPending(t, b)
	require.NoError(t, b.Report(OutcomeGranted))
	stream := (<-done).stream

	frameDone := make(chan Frame, 1)
	go func() {
		f, err := stream.Frame(context.Background())
		require.NoError(t, err)
		frameDone <- f
	}()

	// Give the waiter time to park.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, b.DeliverFrame(Frame{Bytes: []byte("abc"), MIMEType: "image/jpeg"}))

	f := <-frameDone
	assert.Equal(t, []byte("abc"), f.Bytes)

	// The latest frame is retained for subsequent snapshots.
	f, err := stream.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), f.Bytes)
}

func TestBridgeDeliverWithoutStream(t *testing.T) {
	b := NewBridge()
	assert.ErrorIs(t, b.DeliverFrame(Frame{Bytes: []byte("x")}), ErrNoPendingRequest)
}

func TestBridgeStopRevokesStream(t *testing.T) {
	b := NewBridge()
	done := acquireAsync(b, Constraints{})
	waitPending(t, b)
	require.NoError(t, b.Report(OutcomeGranted))
	stream := (<-done).stream

	stream.Stop()
	stream.Stop()

	_, err := stream.Frame(context.Background())
	assert.ErrorIs(t, err, ErrStreamClosed)
	assert.ErrorIs(t, b.DeliverFrame(Frame{Bytes: []byte("x")}), ErrNoPendingRequest)
}

func TestBridgeStopWakesWaiters(t *testing.T) {
	b := NewBridge()
	done := acquireAsync(b, Constraints{})
	waitPending(t, b)
	require.NoError(t, b.Report(OutcomeGranted))
	stream := (<-done).stream

	errCh := make(chan error, 1)
	go func() {
		_, err := stream.Frame(context.Background())
		errCh <- err
	}()
	time.Sleep(10 * time.Millisecond)

	stream.Stop()
	assert.ErrorIs(t, <-errCh, ErrStreamClosed)
}

func TestMessageMapping(t *testing.T) {
	assert.Equal(t, "Camera API is not supported in this browser context (requires HTTPS).", Message(ErrUnsupported))
	assert.Equal(t, "Permission denied. Please allow camera access in your browser settings.", Message(ErrPermissionDenied))
	assert.Equal(t, "No camera device found.", Message(ErrNotFound))
	assert.Equal(t, "Could not access camera. Please ensure no other apps are using it.", Message(ErrBusy))
}
