package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"time"
)

var (
	ErrAlreadyRecording = errors.New("recording already in progress")
	ErrNotRecording     = errors.New("no recording in progress")
)

// Capture is a finished piece of media ready for upload.
type Capture struct {
	Data            []byte
	FileName        string
	FileType        string
	DurationSeconds int64
}

// Camera abstracts the capture hardware. The agent drives it from the
// command executor; implementations must be safe for concurrent use because
// preview frames are pulled while a recording runs.
type Camera interface {
	TakePhoto(ctx context.Context) (*Capture, error)
	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) (*Capture, error)
	Recording() bool
	PreviewFrame(ctx context.Context) ([]byte, error)
	Status() string
}

// FakeCamera renders synthetic JPEG frames. It stands in for real capture
// hardware in development and tests.
type FakeCamera struct {
	mu          sync.Mutex
	recording   bool
	recordStart time.Time
	frame       int
}

func NewFakeCamera() *FakeCamera {
	return &FakeCamera{}
}

func (c *FakeCamera) TakePhoto(ctx context.Context) (*Capture, error) {
	data, err := c.renderFrame()
	if err != nil {
		return nil, err
	}
	return &Capture{
		Data:     data,
		FileName: fmt.Sprintf("photo_%s.jpg", time.Now().UTC().Format("20060102_150405")),
		FileType: "photo",
	}, nil
}

func (c *FakeCamera) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.recording {
		return ErrAlreadyRecording
	}
	c.recording = true
	c.recordStart = time.Now()
	return nil
}

func (c *FakeCamera) StopRecording(ctx context.Context) (*Capture, error) {
	c.mu.Lock()
	recording := c.recording
	start := c.recordStart
	c.recording = false
	c.mu.Unlock()

	if !recording {
		return nil, ErrNotRecording
	}

	data, err := c.renderFrame()
	if err != nil {
		return nil, err
	}
	seconds := int64(time.Since(start).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return &Capture{
		Data:            data,
		FileName:        fmt.Sprintf("clip_%s.mp4", start.UTC().Format("20060102_150405")),
		FileType:        "video",
		DurationSeconds: seconds,
	}, nil
}

func (c *FakeCamera) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

func (c *FakeCamera) PreviewFrame(ctx context.Context) ([]byte, error) {
	return c.renderFrame()
}

func (c *FakeCamera) Status() string {
	if c.Recording() {
		return "recording"
	}
	return "idle"
}

// renderFrame produces a small gradient image that shifts per frame so
// consecutive previews are distinguishable.
func (c *FakeCamera) renderFrame() ([]byte, error) {
	c.mu.Lock()
	c.frame++
	shift := c.frame
	c.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, 160, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 160; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x + shift) % 256),
				G: uint8((y + shift) % 256),
				B: uint8(shift % 256),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 70}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
