package scanner

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a capture device could not be used. None of
// these are fatal to the workflow; manual entry stays available.
type FailureKind int

const (
	PermissionDenied FailureKind = iota
	NoCameraFound
	CameraBusy
	InsecureContext
	DecoderUnavailable
)

func (k FailureKind) String() string {
	switch k {
	case PermissionDenied:
		return "permission denied"
	case NoCameraFound:
		return "no camera found"
	case CameraBusy:
		return "camera busy"
	case InsecureContext:
		return "insecure context"
	case DecoderUnavailable:
		return "decoder unavailable"
	default:
		return "unknown"
	}
}

// CameraError is the typed failure an engine returns from Begin.
type CameraError struct {
	Kind   FailureKind
	Device string
	Err    error
}

func (e *CameraError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scanner: %s (%s): %v", e.Kind, e.Device, e.Err)
	}
	return fmt.Sprintf("scanner: %s (%s)", e.Kind, e.Device)
}

func (e *CameraError) Unwrap() error {
	return e.Err
}

// FallbackMessage is the operator-facing line shown when the engine
// cannot start. Each kind gets its own wording.
func (e *CameraError) FallbackMessage() string {
	switch e.Kind {
	case PermissionDenied:
		return "Camera access denied. Type the code instead."
	case NoCameraFound:
		return "No camera found. Type the code instead."
	case CameraBusy:
		return "Camera is in use by another program. Type the code instead."
	case InsecureContext:
		return "This session is not allowed to use the camera. Type the code instead."
	case DecoderUnavailable:
		return "No barcode decoder is available. Type the code instead."
	default:
		return "Scanner unavailable. Type the code instead."
	}
}

// AsCameraError unwraps err into a *CameraError when possible.
func AsCameraError(err error) (*CameraError, bool) {
	var ce *CameraError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
