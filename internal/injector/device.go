// device.go — opens the real Injector serial device and, optionally,
// auto-detects it by scanning attached serial ports.
package injector

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Open opens the serial device at path with the given baud rate and wraps
// it in a Link. Returns ErrDeviceAbsent-wrapped errors on failure, which
// the caller (cmd/pilotd) treats as fatal at startup.
func Open(path string, baud int, logger zerolog.Logger) (*Link, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, OpenErrorf("opening %s at %d baud: %v", path, baud, err)
	}
	logger.Info().Str("device", path).Int("baud", baud).Msg("injector serial port opened")
	return NewLink(port, logger), nil
}

// AutoDetect scans attached USB serial ports for one whose identifying
// string contains substr (case-insensitive), returning its device path.
// Non-USB ports are skipped.
//
// go.bug.st/serial's enumerator exposes VID/PID/serial-number/USB-ness per
// port but not a manufacturer string, so this matches against the port
// name, serial number, VID and PID — close enough for the common case of a
// USB-CDC device whose OS-assigned name embeds a vendor string, but a
// true manufacturer-string match would need a lower-level USB descriptor
// read this library doesn't provide.
func AutoDetect(substr string) (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("listing serial ports: %w", err)
	}
	needle := strings.ToLower(substr)
	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		haystack := strings.ToLower(p.Name + " " + p.SerialNumber + " " + p.VID + " " + p.PID)
		if strings.Contains(haystack, needle) {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("%w: no USB serial port matched %q", ErrDeviceAbsent, substr)
}
