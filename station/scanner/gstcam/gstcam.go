// Package gstcam captures RGB frames from a local camera through a
// GStreamer pipeline (v4l2src → videoconvert → videoscale → capsfilter →
// appsink). The appsink keeps only the newest buffer so consumers always
// see a fresh frame.
package gstcam

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

// Frame is one captured RGB frame.
type Frame struct {
	Seq       uint64
	Timestamp time.Time
	Width     int
	Height    int
	Data      []byte
	TraceID   string
}

// Config describes the camera to open.
type Config struct {
	Device string // e.g. /dev/video0
	Width  int
	Height int
	FPS    int
}

// DefaultConfig targets a rear-facing warehouse camera at a resolution
// high enough for 1D codes at arm's length.
func DefaultConfig() Config {
	return Config{Device: "/dev/video0", Width: 1280, Height: 720, FPS: 15}
}

// Open errors, classified for the scanner failure taxonomy.
var (
	ErrDeviceNotFound   = errors.New("gstcam: device not found")
	ErrDeviceBusy       = errors.New("gstcam: device busy")
	ErrAccessDenied     = errors.New("gstcam: access denied")
	ErrContextForbidden = errors.New("gstcam: execution context may not open devices")
	// ErrPipelineUnavailable means the device is fine but the GStreamer
	// elements for the decode pipeline are missing.
	ErrPipelineUnavailable = errors.New("gstcam: decode pipeline unavailable")
)

// Source owns one camera pipeline and fans frames out on a channel.
type Source struct {
	cfg      Config
	pipeline *gst.Pipeline
	sink     *app.Sink

	frames  chan Frame
	counter uint64

	mu       sync.Mutex
	latest   Frame
	hasFrame bool
	closed   bool
}

// ProbeDevice checks the device node without starting a pipeline, so
// engine discovery can classify failures cheaply.
func ProbeDevice(device string) error {
	info, err := os.Stat(device)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDeviceNotFound, device)
		}
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrAccessDenied, device)
		}
		return fmt.Errorf("gstcam: stat %s: %w", device, err)
	}
	if info.Mode()&os.ModeDevice == 0 {
		return fmt.Errorf("%w: %s is not a device node", ErrDeviceNotFound, device)
	}

	f, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return classifyOpenError(device, err)
	}
	_ = f.Close()
	return nil
}

func classifyOpenError(device string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, device)
	case errors.Is(err, syscall.EBUSY):
		return fmt.Errorf("%w: %s", ErrDeviceBusy, device)
	case errors.Is(err, syscall.EPERM):
		return fmt.Errorf("%w: %s", ErrContextForbidden, device)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrAccessDenied, device)
	default:
		return fmt.Errorf("gstcam: open %s: %w", device, err)
	}
}

// Open builds and starts the pipeline. The returned Source must be
// closed; leaving it running keeps the camera hot.
func Open(cfg Config) (*Source, error) {
	if err := ProbeDevice(cfg.Device); err != nil {
		return nil, err
	}

	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("%w: create pipeline: %v", ErrPipelineUnavailable, err)
	}

	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return nil, fmt.Errorf("%w: create v4l2src: %v", ErrPipelineUnavailable, err)
	}
	src.SetProperty("device", cfg.Device)

	converter, err := gst.NewElement("videoconvert")
	if err != nil {
		return nil, fmt.Errorf("%w: create videoconvert: %v", ErrPipelineUnavailable, err)
	}

	scaler, err := gst.NewElement("videoscale")
	if err != nil {
		return nil, fmt.Errorf("%w: create videoscale: %v", ErrPipelineUnavailable, err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("%w: create capsfilter: %v", ErrPipelineUnavailable, err)
	}
	capsStr := fmt.Sprintf("video/x-raw,format=RGB,width=%d,height=%d,framerate=%d/1", cfg.Width, cfg.Height, cfg.FPS)
	capsfilter.SetProperty("caps", gst.NewCapsFromString(capsStr))

	sink, err := app.NewAppSink()
	if err != nil {
		return nil, fmt.Errorf("%w: create appsink: %v", ErrPipelineUnavailable, err)
	}
	sink.SetProperty("sync", false)
	sink.SetProperty("max-buffers", 1)
	sink.SetProperty("drop", true)

	pipeline.AddMany(src, converter, scaler, capsfilter, sink.Element)
	if err := gst.ElementLinkMany(src, converter, scaler, capsfilter, sink.Element); err != nil {
		return nil, fmt.Errorf("%w: link pipeline: %v", ErrPipelineUnavailable, err)
	}

	s := &Source{
		cfg:      cfg,
		pipeline: pipeline,
		sink:     sink,
		frames:   make(chan Frame, 2),
	}

	sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: s.onNewSample,
	})

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		_ = pipeline.SetState(gst.StateNull)
		return nil, classifyOpenError(cfg.Device, err)
	}

	return s, nil
}

func (s *Source) onNewSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		// A single bad sample must not kill the stream.
		return gst.FlowOK
	}

	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		return gst.FlowOK
	}
	frameData := make([]byte, len(data))
	copy(frameData, data)
	buffer.Unmap()

	frame := Frame{
		Seq:       atomic.AddUint64(&s.counter, 1),
		Timestamp: time.Now(),
		Width:     s.cfg.Width,
		Height:    s.cfg.Height,
		Data:      frameData,
		TraceID:   uuid.NewString(),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return gst.FlowEOS
	}
	s.latest = frame
	s.hasFrame = true
	s.mu.Unlock()

	select {
	case s.frames <- frame:
	default:
		// Consumer is behind; the latest-frame slot still advances.
	}

	return gst.FlowOK
}

// Frames is the live frame stream. The channel is never closed; callers
// stop consuming when they Close the source.
func (s *Source) Frames() <-chan Frame {
	return s.frames
}

// Latest returns the most recent frame, if any arrived yet.
func (s *Source) Latest() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasFrame
}

// Close stops the pipeline and releases the device. Idempotent.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.pipeline != nil {
		if err := s.pipeline.SetState(gst.StateNull); err != nil {
			return fmt.Errorf("gstcam: stop pipeline: %w", err)
		}
	}
	return nil
}
