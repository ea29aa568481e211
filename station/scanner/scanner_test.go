package scanner

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"quickstock/station/scanner/gstcam"
)

func TestFallbackMessagesAreDistinct(t *testing.T) {
	kinds := []FailureKind{PermissionDenied, NoCameraFound, CameraBusy, InsecureContext, DecoderUnavailable}
	seen := make(map[string]FailureKind)
	for _, kind := range kinds {
		msg := (&CameraError{Kind: kind, Device: "/dev/video0"}).FallbackMessage()
		if msg == "" {
			t.Fatalf("empty fallback message for %v", kind)
		}
		if prev, dup := seen[msg]; dup {
			t.Fatalf("kinds %v and %v share fallback message %q", prev, kind, msg)
		}
		seen[msg] = kind
	}
}

func TestMapDeviceErrorClassification(t *testing.T) {
	tests := []struct {
		err  error
		want FailureKind
	}{
		{fmt.Errorf("wrap: %w", gstcam.ErrDeviceNotFound), NoCameraFound},
		{fmt.Errorf("wrap: %w", gstcam.ErrDeviceBusy), CameraBusy},
		{fmt.Errorf("wrap: %w", gstcam.ErrAccessDenied), PermissionDenied},
		{fmt.Errorf("wrap: %w", gstcam.ErrContextForbidden), InsecureContext},
		{fmt.Errorf("wrap: %w", gstcam.ErrPipelineUnavailable), DecoderUnavailable},
		{errors.New("something else"), NoCameraFound},
	}
	for _, tt := range tests {
		got := mapDeviceError("/dev/video9", tt.err)
		if got.Kind != tt.want {
			t.Fatalf("mapDeviceError(%v) kind = %v, want %v", tt.err, got.Kind, tt.want)
		}
		if got.Device != "/dev/video9" {
			t.Fatalf("expected device carried through, got %q", got.Device)
		}
		if !errors.Is(got, tt.err) && got.Err != tt.err {
			t.Fatalf("expected original error wrapped")
		}
	}
}

func TestCameraErrorUnwrap(t *testing.T) {
	cause := gstcam.ErrDeviceBusy
	err := error(&CameraError{Kind: CameraBusy, Device: "/dev/video0", Err: cause})
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to see the cause through CameraError")
	}
	ce, ok := AsCameraError(fmt.Errorf("begin: %w", err))
	if !ok || ce.Kind != CameraBusy {
		t.Fatalf("expected AsCameraError to unwrap, got %v %v", ce, ok)
	}
}

func TestProbeMissingCameraDevice(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "video42")
	err := gstcam.ProbeDevice(missing)
	if !errors.Is(err, gstcam.ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestDiscoverNoDevicesReturnsFirstFailure(t *testing.T) {
	dir := t.TempDir()
	engine, failure := Discover(DiscoverConfig{
		CameraDevice: filepath.Join(dir, "video0"),
		SerialPort:   filepath.Join(dir, "ttyACM0"),
	})
	if engine != nil {
		t.Fatalf("expected no engine, got %s", engine.Name())
	}
	if failure == nil {
		t.Fatalf("expected a camera failure")
	}
	if failure.Kind != NoCameraFound {
		t.Fatalf("expected NoCameraFound from preferred candidate, got %v", failure.Kind)
	}
}

func TestEndIsIdempotentWhenNotStarted(t *testing.T) {
	cfg := gstcam.Config{Device: "/dev/null"}
	engines := []Engine{
		NewLiveEngine(cfg),
		NewFramePollEngine(cfg, 0),
		NewWedgeEngine("/dev/null", 0),
	}
	for _, engine := range engines {
		engine.End()
		engine.End()
	}
}
