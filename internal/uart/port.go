// SPDX-License-Identifier: MIT
package uart

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// OpenPort opens a hardware serial port for the debug dumps. The port is
// write-only from our side; reads time out immediately.
func OpenPort(name string, baud int) (io.WriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	return port, nil
}
