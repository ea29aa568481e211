package scanner

import (
	"time"

	"quickstock/station/scanner/gstcam"
)

// DiscoverConfig lists the devices a station may have attached.
type DiscoverConfig struct {
	CameraDevice string
	CameraWidth  int
	CameraHeight int
	CameraFPS    int
	PollInterval time.Duration
	SerialPort   string
	SerialBaud   int
	// PreferPolling selects the frame-poll engine over live decode for
	// stations whose hardware cannot keep up with per-sample decoding.
	PreferPolling bool
}

// probeableEngine is an Engine that can be checked without capturing.
type probeableEngine interface {
	Engine
	Probe() error
}

// Discover tries engines in priority order and returns the first whose
// device probe succeeds. When nothing works it returns nil and the
// failure from the most-preferred candidate so the caller can show one
// clear manual-entry fallback message.
func Discover(cfg DiscoverConfig) (Engine, *CameraError) {
	camCfg := gstcam.DefaultConfig()
	if cfg.CameraDevice != "" {
		camCfg.Device = cfg.CameraDevice
	}
	if cfg.CameraWidth > 0 {
		camCfg.Width = cfg.CameraWidth
	}
	if cfg.CameraHeight > 0 {
		camCfg.Height = cfg.CameraHeight
	}
	if cfg.CameraFPS > 0 {
		camCfg.FPS = cfg.CameraFPS
	}

	var candidates []probeableEngine
	if cfg.PreferPolling {
		candidates = append(candidates, NewFramePollEngine(camCfg, cfg.PollInterval), NewLiveEngine(camCfg))
	} else {
		candidates = append(candidates, NewLiveEngine(camCfg), NewFramePollEngine(camCfg, cfg.PollInterval))
	}
	if cfg.SerialPort != "" {
		candidates = append(candidates, NewWedgeEngine(cfg.SerialPort, cfg.SerialBaud))
	}

	var firstFailure *CameraError
	for _, candidate := range candidates {
		err := candidate.Probe()
		if err == nil {
			return candidate, nil
		}
		if firstFailure == nil {
			if ce, ok := AsCameraError(err); ok {
				firstFailure = ce
			} else {
				firstFailure = &CameraError{Kind: NoCameraFound, Device: cfg.CameraDevice, Err: err}
			}
		}
	}
	return nil, firstFailure
}
