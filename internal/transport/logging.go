// SPDX-License-Identifier: MIT
package transport

import (
	"signallab/internal/log"
)

// LoggingTransport implements the Transport interface by writing a one-line
// summary of every payload to the debug log.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	log.Debug("Transport: Using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs a digest of data. It never fails.
func (lt *LoggingTransport) Send(data any) error {
	if d, ok := data.(Digester); ok {
		log.Debugf("LOG_TRANSPORT: %s", d.Digest())
		return nil
	}
	log.Debugf("LOG_TRANSPORT: Received %T", data)
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	log.Debug("LOG_TRANSPORT: Close called.")
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
