// SPDX-License-Identifier: MIT
package transport

import (
	applog "discolight/internal/log"
)

var transportLog = applog.New("transport")

// LoggingTransport implements the Transport interface by logging snapshots
// at debug level.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	transportLog.Infof("using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs the received data.
func (lt *LoggingTransport) Send(data any) error {
	switch v := data.(type) {
	case Snapshot:
		transportLog.Debugf("frame %d states=%v counters=%v overruns=%d", v.Seq, v.States, v.Counters, v.Overruns)
	default:
		transportLog.Debugf("received (%T): %+v", data, data)
	}
	return nil // Logging transport never fails to "send"
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
