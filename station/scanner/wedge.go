package scanner

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"sync"

	"go.bug.st/serial"
)

// WedgeEngine reads a managed hardware scanner on a serial port. The
// device does its own decoding and emits one code per line, so this
// engine never touches the camera or decoder at all. Last in the
// discovery chain but the most reliable where the hardware exists.
type WedgeEngine struct {
	portName string
	baud     int

	mu      sync.Mutex
	port    serial.Port
	stop    chan struct{}
	running bool
}

func NewWedgeEngine(portName string, baud int) *WedgeEngine {
	if baud <= 0 {
		baud = 9600
	}
	return &WedgeEngine{portName: portName, baud: baud}
}

func (e *WedgeEngine) Name() string { return "wedge" }

func (e *WedgeEngine) Probe() error {
	port, err := serial.Open(e.portName, &serial.Mode{BaudRate: e.baud})
	if err != nil {
		return mapSerialError(e.portName, err)
	}
	_ = port.Close()
	return nil
}

func (e *WedgeEngine) Begin(ctx context.Context, events Events) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil
	}

	port, err := serial.Open(e.portName, &serial.Mode{BaudRate: e.baud})
	if err != nil {
		return mapSerialError(e.portName, err)
	}

	stop := make(chan struct{})
	e.port = port
	e.stop = stop
	e.running = true

	go func() {
		lines := bufio.NewScanner(port)
		for lines.Scan() {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			default:
			}
			text := strings.TrimSpace(lines.Text())
			if text == "" {
				continue
			}
			if events.CodeDetected != nil {
				events.CodeDetected(text)
			}
		}

		// Read loop ended: either End() closed the port, or the device
		// went away. Only the latter is a terminal failure.
		select {
		case <-stop:
			return
		default:
		}
		if events.EngineFailed != nil {
			err := lines.Err()
			if err == nil {
				err = errors.New("serial device closed the stream")
			}
			events.EngineFailed(&CameraError{Kind: NoCameraFound, Device: e.portName, Err: err})
		}
	}()
	return nil
}

func (e *WedgeEngine) End() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	close(e.stop)
	_ = e.port.Close()
	e.port = nil
	e.running = false
}

func mapSerialError(portName string, err error) *CameraError {
	kind := NoCameraFound
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortNotFound:
			kind = NoCameraFound
		case serial.PortBusy:
			kind = CameraBusy
		case serial.PermissionDenied:
			kind = PermissionDenied
		}
	}
	return &CameraError{Kind: kind, Device: portName, Err: err}
}
