package api

import (
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-teleop/overlay/pkg/config"
	"github.com/open-teleop/overlay/pkg/notify"
	"github.com/open-teleop/overlay/pkg/render"
	"github.com/open-teleop/overlay/pkg/scene"
	"github.com/open-teleop/overlay/pkg/transform"
)

func receive(t *testing.T, c *Client) OutboundMessage {
	t.Helper()
	select {
	case data := <-c.Messages():
		var msg OutboundMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	default:
		t.Fatal("no message queued")
		return OutboundMessage{}
	}
}

func TestHubDrawBroadcastsScene(t *testing.T) {
	hub := NewHub(nil)
	a, b := hub.Register(), hub.Register()
	assert.Equal(t, 2, hub.Clients())

	frame := render.Frame{
		Seq:         7,
		TimestampNs: 1234,
		AutoRotate:  true,
		Scene: scene.Snapshot{
			HasModel: true,
			Model:    "hat",
			Transform: transform.ModelTransform{
				Position:  mgl64.Vec3{10, -40, 0},
				Scale:     mgl64.Vec3{2, 2, 1},
				RotationY: 0.5,
			},
		},
	}
	require.NoError(t, hub.Draw(frame))

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		assert.Equal(t, MessageScene, msg.Type)
		require.NotNil(t, msg.Scene)
		assert.Equal(t, uint64(7), msg.Scene.Seq)
		assert.Equal(t, "hat", msg.Scene.Model)
		assert.True(t, msg.Scene.AutoRotate)
		assert.Equal(t, Vector3{X: 10, Y: -40, Z: 0}, msg.Scene.Position)
		assert.Equal(t, Vector3{X: 2, Y: 2, Z: 1}, msg.Scene.Scale)
		assert.Equal(t, 0.5, msg.Scene.RotationY)
	}
}

func TestHubDropsWhenClientIsSlow(t *testing.T) {
	hub := NewHub(nil)
	c := hub.Register()

	for i := 0; i < clientBuffer+5; i++ {
		require.NoError(t, hub.Draw(render.Frame{Seq: uint64(i)}))
	}
	assert.Equal(t, uint64(5), hub.Dropped())
	assert.Len(t, c.send, clientBuffer)
}

func TestHubUnregisterClosesChannel(t *testing.T) {
	hub := NewHub(nil)
	c := hub.Register()
	hub.Unregister(c)
	hub.Unregister(c)

	_, open := <-c.Messages()
	assert.False(t, open)
	assert.Equal(t, 0, hub.Clients())
	assert.False(t, hub.SendTo(c, OutboundMessage{Type: MessageError}))
	require.NoError(t, hub.Draw(render.Frame{}))
}

func TestHubBannerAndCatalog(t *testing.T) {
	hub := NewHub(nil)
	c := hub.Register()

	hub.ShowBanner(notify.Message{ID: 1, Text: "camera access denied"})
	msg := receive(t, c)
	assert.Equal(t, MessageBanner, msg.Type)
	require.NotNil(t, msg.Banner)
	assert.Equal(t, "camera access denied", msg.Banner.Text)

	err := hub.PublishCatalogUpdated(&config.Config{
		ConfigID:     "c1",
		DefaultModel: "hat",
		Models:       []config.ModelEntry{{Name: "hat"}, {Name: "glasses"}},
	})
	require.NoError(t, err)
	msg = receive(t, c)
	assert.Equal(t, MessageCatalog, msg.Type)
	require.NotNil(t, msg.Catalog)
	assert.Equal(t, []string{"hat", "glasses"}, msg.Catalog.Models)
}

func TestHubSendToSingleClient(t *testing.T) {
	hub := NewHub(nil)
	a, b := hub.Register(), hub.Register()

	assert.True(t, hub.SendTo(a, OutboundMessage{Type: MessageError, Error: "bad"}))
	msg := receive(t, a)
	assert.Equal(t, "bad", msg.Error)
	assert.Len(t, b.send, 0)
}
