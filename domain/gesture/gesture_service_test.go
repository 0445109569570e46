package gesture

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-teleop/overlay/pkg/gesture"
)

type fakeTarget struct {
	pinches   []float64
	rotations []float64
	noModel   bool
}

func (f *fakeTarget) Pinch(s float64) bool {
	f.pinches = append(f.pinches, s)
	return !f.noModel
}

func (f *fakeTarget) Rotate(r float64) bool {
	f.rotations = append(f.rotations, r)
	return !f.noModel
}

func (f *fakeTarget) State() gesture.State {
	return gesture.State{PinchFactor: 1, Enabled: true}
}

func post(t *testing.T, app *fiber.App, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/gesture", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func newApp(f *fakeTarget) *fiber.App {
	app := fiber.New()
	app.Post("/api/gesture", NewGestureService(f, f).CommandHandler)
	return app
}

func TestCommandHandlerAppliesGestures(t *testing.T) {
	f := &fakeTarget{}
	app := newApp(f)

	code, body := post(t, app, `{"type":"pinch","scale":1.25}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["applied"])
	assert.NotNil(t, body["state"])

	code, _ = post(t, app, `{"type":"rotate","angle":-15}`)
	assert.Equal(t, http.StatusOK, code)

	assert.Equal(t, []float64{1.25}, f.pinches)
	assert.Equal(t, []float64{-15}, f.rotations)
}

func TestCommandHandlerReportsNoModel(t *testing.T) {
	app := newApp(&fakeTarget{noModel: true})
	code, body := post(t, app, `{"type":"rotate","angle":10}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["applied"])
}

func TestCommandHandlerRejectsInvalid(t *testing.T) {
	f := &fakeTarget{}
	app := newApp(f)

	for _, body := range []string{
		`{"type":"pinch","scale":0}`,
		`{"type":"pinch","scale":-2}`,
		`{"type":"shake"}`,
		`not json`,
	} {
		code, payload := post(t, app, body)
		assert.Equal(t, http.StatusBadRequest, code, body)
		assert.NotEmpty(t, payload["error"], body)
	}
	assert.Empty(t, f.pinches)
	assert.Empty(t, f.rotations)
}

func TestValidateCommand(t *testing.T) {
	s := NewGestureService(&fakeTarget{}, nil)
	assert.NoError(t, s.ValidateCommand(Command{Type: TypePinch, Scale: 0.5}))
	assert.NoError(t, s.ValidateCommand(Command{Type: TypeRotate}))
	assert.ErrorIs(t, s.ValidateCommand(Command{Type: TypePinch, Scale: math.Inf(1)}), ErrInvalidCommand)
	assert.ErrorIs(t, s.ValidateCommand(Command{Type: TypeRotate, Angle: math.NaN()}), ErrInvalidCommand)
}
