package pose

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-teleop/overlay/pkg/landmark"
)

func TestLocalDeliversInOrder(t *testing.T) {
	l := NewLocal(func(ctx context.Context, req Request) Result {
		set, err := landmark.NewSet(map[landmark.BodyPart]landmark.Landmark{
			landmark.Nose: {X: float64(req.Seq)},
		})
		return Result{Landmarks: set, Err: err}
	}, 4)

	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, l.Send(context.Background(), Request{SessionID: "s1", Seq: i}))
	}
	require.NoError(t, l.Close())

	var seqs []uint64
	for res := range l.Results() {
		assert.Equal(t, "s1", res.SessionID)
		lm, ok := res.Landmarks.Get(landmark.Nose)
		require.True(t, ok)
		assert.Equal(t, float64(res.Seq), lm.X)
		seqs = append(seqs, res.Seq)
	}
	assert.Equal(t, []uint64{1, 2, 3}, seqs)
}

func TestLocalSendAfterClose(t *testing.T) {
	l := NewLocal(func(ctx context.Context, req Request) Result { return Result{} }, 1)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	assert.ErrorIs(t, l.Send(context.Background(), Request{}), ErrClosed)
}
