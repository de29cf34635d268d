// SPDX-License-Identifier: MIT
package udp

import (
	"errors"
	"fmt"
	"net"
	"sync"

	applog "discolight/internal/log"
)

var udpLog = applog.New("udp")

// ErrSenderClosed is returned by Send after Close.
var ErrSenderClosed = errors.New("udp sender closed")

// UDPSender writes snapshot packets to one connected peer.
type UDPSender struct {
	mu   sync.Mutex
	conn *net.UDPConn // nil once closed
}

// NewUDPSender connects to a "host:port" target.
func NewUDPSender(target string) (*UDPSender, error) {
	addr, err := net.ResolveUDPAddr("udp", target)
	if err != nil {
		return nil, fmt.Errorf("resolve udp target %q: %w", target, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp target %q: %w", target, err)
	}
	udpLog.Infof("sending channel states to %s", conn.RemoteAddr())
	return &UDPSender{conn: conn}, nil
}

// Send writes one packet.
func (s *UDPSender) Send(packet []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrSenderClosed
	}
	if _, err := s.conn.Write(packet); err != nil {
		return fmt.Errorf("send udp packet: %w", err)
	}
	return nil
}

// Close releases the connection. Closing twice is a no-op.
func (s *UDPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	udpLog.Debugf("closing %s", s.conn.RemoteAddr())
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("close udp connection: %w", err)
	}
	return nil
}
