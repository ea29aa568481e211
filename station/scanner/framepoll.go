package scanner

import (
	"context"
	"sync"
	"time"

	"quickstock/station/scanner/decode"
	"quickstock/station/scanner/gstcam"
)

const defaultPollInterval = 300 * time.Millisecond

// FramePollEngine decodes the latest camera frame on a fixed interval.
// Second choice: cheaper than live decode on slow hardware, slightly
// higher detection latency.
type FramePollEngine struct {
	cfg      gstcam.Config
	interval time.Duration
	dec      *decode.Decoder

	mu      sync.Mutex
	source  *gstcam.Source
	stop    chan struct{}
	running bool
}

func NewFramePollEngine(cfg gstcam.Config, interval time.Duration) *FramePollEngine {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &FramePollEngine{cfg: cfg, interval: interval, dec: decode.New()}
}

func (e *FramePollEngine) Name() string { return "frame-poll" }

func (e *FramePollEngine) Probe() error {
	if err := gstcam.ProbeDevice(e.cfg.Device); err != nil {
		return mapDeviceError(e.cfg.Device, err)
	}
	return nil
}

func (e *FramePollEngine) Begin(ctx context.Context, events Events) error {
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
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		var lastSeq uint64
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				frame, ok := source.Latest()
				if !ok || frame.Seq == lastSeq {
					continue
				}
				lastSeq = frame.Seq
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

func (e *FramePollEngine) End() {
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
