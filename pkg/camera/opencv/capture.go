// Package opencv is the gocv camera backend.
package opencv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/open-teleop/overlay/pkg/camera"
)

// Devices maps facing modes to capture device indices.
type Devices struct {
	User        int `yaml:"user"`
	Environment int `yaml:"environment"`
}

// Index returns the device for a facing mode, defaulting to the user camera.
func (d Devices) Index(mode camera.FacingMode) int {
	if mode == camera.FacingEnvironment {
		return d.Environment
	}
	return d.User
}

// Opener opens gocv VideoCapture devices.
type Opener struct {
	Devices Devices
	// Quality is the JPEG quality; 0 keeps the OpenCV default.
	Quality int
}

// Open implements camera.Opener.
func (o Opener) Open(ctx context.Context, c camera.Constraints) (camera.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := o.Devices.Index(c.FacingMode)
	vc, err := gocv.OpenVideoCapture(idx)
	if err != nil {
		return nil, fmt.Errorf("opening capture device %d: %w", idx, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("capture device %d not available", idx)
	}
	if c.Width > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(c.Width))
	}
	if c.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(c.Height))
	}
	return &device{vc: vc, mat: gocv.NewMat(), quality: o.Quality}, nil
}

// device serialises reads and Close; gocv handles are not goroutine safe.
type device struct {
	mu      sync.Mutex
	vc      *gocv.VideoCapture
	mat     gocv.Mat
	quality int
	closed  bool
}

var errClosed = errors.New("capture device closed")

func (d *device) ReadFrame() (camera.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return camera.Frame{}, errClosed
	}
	if ok := d.vc.Read(&d.mat); !ok {
		return camera.Frame{}, errors.New("capture device returned no frame")
	}
	if d.mat.Empty() {
		return camera.Frame{}, nil
	}

	var (
		buf *gocv.NativeByteBuffer
		err error
	)
	if d.quality > 0 {
		buf, err = gocv.IMEncodeWithParams(gocv.JPEGFileExt, d.mat, []int{gocv.IMWriteJpegQuality, d.quality})
	} else {
		buf, err = gocv.IMEncode(gocv.JPEGFileExt, d.mat)
	}
	if err != nil {
		return camera.Frame{}, fmt.Errorf("encoding frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())

	return camera.Frame{
		Timestamp: time.Now(),
		Width:     d.mat.Cols(),
		Height:    d.mat.Rows(),
		Data:      data,
	}, nil
}

func (d *device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	_ = d.mat.Close()
	return d.vc.Close()
}
