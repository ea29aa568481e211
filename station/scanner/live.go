package scanner

import (
	"context"
	"errors"
	"sync"

	"quickstock/station/scanner/decode"
	"quickstock/station/scanner/gstcam"
)

// LiveEngine decodes every camera sample as it arrives. First choice in
// the discovery chain: lowest latency, needs a working camera pipeline.
type LiveEngine struct {
	cfg gstcam.Config
	dec *decode.Decoder

	mu      sync.Mutex
	source  *gstcam.Source
	stop    chan struct{}
	running bool
}

func NewLiveEngine(cfg gstcam.Config) *LiveEngine {
	return &LiveEngine{cfg: cfg, dec: decode.New()}
}

func (e *LiveEngine) Name() string { return "live" }

// Probe checks the device without starting capture.
func (e *LiveEngine) Probe() error {
	if err := gstcam.ProbeDevice(e.cfg.Device); err != nil {
		return mapDeviceError(e.cfg.Device, err)
	}
	return nil
}

func (e *LiveEngine) Begin(ctx context.Context, events Events) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil
	}

	source, err := gstcam.Open(e.cfg)
	if err != nil {
		return mapDeviceError(e.cfg.Device, err)
	}

	stop := make(chan struct{})
	e.source = source
	e.stop = stop
	e.running = true

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case frame := <-source.Frames():
				text, err := e.dec.DecodeRGB(frame.Width, frame.Height, frame.Data)
				if err != nil {
					continue
				}
				select {
				case <-stop:
					return
				default:
				}
				if events.CodeDetected != nil {
					events.CodeDetected(text)
				}
			}
		}
	}()
	return nil
}

func (e *LiveEngine) End() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	close(e.stop)
	_ = e.source.Close()
	e.source = nil
	e.running = false
}

func mapDeviceError(device string, err error) *CameraError {
	kind := NoCameraFound
	switch {
	case errors.Is(err, gstcam.ErrDeviceNotFound):
		kind = NoCameraFound
	case errors.Is(err, gstcam.ErrDeviceBusy):
		kind = CameraBusy
	case errors.Is(err, gstcam.ErrAccessDenied):
		kind = PermissionDenied
	case errors.Is(err, gstcam.ErrContextForbidden):
		kind = InsecureContext
	case errors.Is(err, gstcam.ErrPipelineUnavailable):
		kind = DecoderUnavailable
	}
	return &CameraError{Kind: kind, Device: device, Err: err}
}
