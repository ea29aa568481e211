package scanner

import "context"

// Events receives engine output. CodeDetected fires zero or more times
// after a successful Begin; EngineFailed fires at most once, terminally,
// after which the engine emits nothing else.
type Events struct {
	CodeDetected func(text string)
	EngineFailed func(err error)
}

// Engine is one barcode capture mechanism. Begin starts capture and
// returns once the device is acquired or a CameraError explains why it
// cannot be. End is idempotent and safe to call when not started; it
// releases the device and cancels pending decode work.
type Engine interface {
	Name() string
	Begin(ctx context.Context, events Events) error
	End()
}
