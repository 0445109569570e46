package camera

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var constraints = Constraints{FacingMode: FacingUser, Width: 640, Height: 480}

func TestAcquireGranted(t *testing.T) {
	dev := newFakeDevice()
	m := NewManager(openerFor(dev, nil), nil)

	s, err := m.Acquire(context.Background(), constraints)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, constraints, s.Constraints)
	assert.False(t, s.Stopped())
}

func TestAcquireDeniedWrapsAccessDenied(t *testing.T) {
	m := NewManager(openerFor(nil, errors.New("permission dismissed")), nil)

	s, err := m.Acquire(context.Background(), constraints)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Contains(t, err.Error(), "permission dismissed")
}

func TestAcquireWithoutBackend(t *testing.T) {
	m := NewManager(nil, nil)
	_, err := m.Acquire(context.Background(), constraints)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestAcquireCancelledClosesLateDevice(t *testing.T) {
	dev := newFakeDevice()
	release := make(chan struct{})
	m := NewManager(OpenerFunc(func(ctx context.Context, c Constraints) (Device, error) {
		<-release
		return dev, nil
	}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := m.Acquire(ctx, constraints)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrAccessDenied)

	close(release)
	assert.Eventually(t, func() bool { return dev.closeCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestBindVideoSinkWaitsForFirstFrame(t *testing.T) {
	dev := newFakeDevice()
	m := NewManager(openerFor(dev, nil), nil)
	s, err := m.Acquire(context.Background(), constraints)
	require.NoError(t, err)

	dev.frames <- Frame{} // no data, ignored
	dev.frames <- jpegFrame(640, 480)

	sink, err := m.BindVideoSink(context.Background(), s)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sink.ReadyState(), HaveCurrentData)
	w, h := sink.Dimensions()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	f, ok := sink.CurrentFrame()
	require.True(t, ok)
	assert.Equal(t, uint64(2), f.Seq)

	m.Release(s)
	assert.Eventually(t, func() bool { return sink.ReadyState() == HaveNothing }, time.Second, 5*time.Millisecond)
	assert.NoError(t, sink.Err())
}

func TestBindVideoSinkStoppedStream(t *testing.T) {
	dev := newFakeDevice()
	m := NewManager(openerFor(dev, nil), nil)
	s, err := m.Acquire(context.Background(), constraints)
	require.NoError(t, err)
	m.Release(s)

	_, err = m.BindVideoSink(context.Background(), s)
	assert.ErrorIs(t, err, ErrStreamStopped)

	_, err = m.BindVideoSink(context.Background(), nil)
	assert.ErrorIs(t, err, ErrStreamStopped)
}

func TestBindVideoSinkDeviceFailure(t *testing.T) {
	dev := newFakeDevice()
	m := NewManager(openerFor(dev, nil), nil)
	s, err := m.Acquire(context.Background(), constraints)
	require.NoError(t, err)

	close(dev.frames)
	_, err = m.BindVideoSink(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device unplugged")
}

func TestBindVideoSinkContextTimeout(t *testing.T) {
	dev := newFakeDevice()
	m := NewManager(openerFor(dev, nil), nil)
	s, err := m.Acquire(context.Background(), constraints)
	require.NoError(t, err)
	defer m.Release(s)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.BindVideoSink(ctx, s)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReleaseIsIdempotent(t *testing.T) {
	dev := newFakeDevice()
	m := NewManager(openerFor(dev, nil), nil)
	s, err := m.Acquire(context.Background(), constraints)
	require.NoError(t, err)

	m.Release(s)
	m.Release(s)
	m.Release(nil)

	assert.True(t, s.Stopped())
	assert.Equal(t, 1, dev.closeCount())
	select {
	case <-s.Done():
	default:
		t.Fatal("stream Done not closed")
	}
}
