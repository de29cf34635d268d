// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"discolight/internal/transport"
	"encoding/binary"
	"fmt"
	"time"
)

/*
UDP Packet Structure (BigEndian)

+------------------------------------------------------------------------------+
| Field             | Data Type      | Size (Bytes) | Description              |
|-------------------|----------------|--------------|--------------------------|
| Sequence Number   | uint32         | 4            | Frame sequence number    |
| Timestamp         | int64          | 8            | Nanoseconds since epoch  |
| Overruns          | uint32         | 4            | Dropped conversions      |
| Bucket Count      | uint16         | 2            | Number of buckets (B)    |
| Buckets           | []uint32       | B * 4        | Folded power spectrum    |
| Channel Count     | uint16         | 2            | Number of channels (C)   |
| Counters          | []uint8        | C            | Hysteresis counters      |
| States            | []byte         | (C + 7) / 8  | Output bits, LSB first   |
+------------------------------------------------------------------------------+
*/

// HeaderSize is the size of the fixed fields before the buckets.
const HeaderSize = 4 + 8 + 4 + 2

// UDPTransport packs snapshots into the binary packet format above and
// sends them with a UDPSender.
type UDPTransport struct {
	sender       *UDPSender
	packetBuffer *bytes.Buffer // Reusable buffer for constructing the binary packet.
}

// NewUDPTransport wraps sender.
func NewUDPTransport(sender *UDPSender) (*UDPTransport, error) {
	if sender == nil {
		return nil, fmt.Errorf("UDPTransport: UDP sender cannot be nil")
	}
	return &UDPTransport{sender: sender, packetBuffer: new(bytes.Buffer)}, nil
}

// Send packs and sends a transport.Snapshot. Other values are rejected.
func (u *UDPTransport) Send(data any) error {
	snap, ok := data.(transport.Snapshot)
	if !ok {
		return fmt.Errorf("UDPTransport: unsupported payload %T", data)
	}
	u.packetBuffer.Reset()
	if err := Pack(u.packetBuffer, snap); err != nil {
		return err
	}
	if err := u.sender.Send(u.packetBuffer.Bytes()); err != nil {
		return err
	}
	udpLog.Debugf("sent packet %d (%d bytes)", snap.Seq, u.packetBuffer.Len())
	return nil
}

// Close closes the sender.
func (u *UDPTransport) Close() error {
	return u.sender.Close()
}

var _ transport.Transport = (*UDPTransport)(nil)

// Pack writes snap to buf in the packet format.
func Pack(buf *bytes.Buffer, snap transport.Snapshot) error {
	counters := make([]uint8, len(snap.Counters))
	for i, c := range snap.Counters {
		counters[i] = uint8(c)
	}
	bits := make([]byte, (len(snap.States)+7)/8)
	for i, on := range snap.States {
		if on {
			bits[i/8] |= 1 << (i % 8)
		}
	}

	// Chain error checks for cleaner code.
	err := binary.Write(buf, binary.BigEndian, uint32(snap.Seq))
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, snap.Time.UnixNano())
	}
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, uint32(snap.Overruns))
	}
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, uint16(len(snap.Buckets)))
	}
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, snap.Buckets)
	}
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, uint16(len(counters)))
	}
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, counters)
	}
	if err == nil {
		_, err = buf.Write(bits)
	}
	if err != nil {
		return fmt.Errorf("error packing snapshot: %w", err)
	}
	return nil
}

// Unpack decodes a packet written by Pack. Timestamps keep nanosecond
// precision but lose the location.
func Unpack(data []byte) (transport.Snapshot, error) {
	var snap transport.Snapshot
	r := bytes.NewReader(data)

	var (
		seq      uint32
		ts       int64
		overruns uint32
		nb       uint16
		nc       uint16
	)
	err := binary.Read(r, binary.BigEndian, &seq)
	if err == nil {
		err = binary.Read(r, binary.BigEndian, &ts)
	}
	if err == nil {
		err = binary.Read(r, binary.BigEndian, &overruns)
	}
	if err == nil {
		err = binary.Read(r, binary.BigEndian, &nb)
	}
	if err == nil {
		snap.Buckets = make([]uint32, nb)
		err = binary.Read(r, binary.BigEndian, snap.Buckets)
	}
	if err == nil {
		err = binary.Read(r, binary.BigEndian, &nc)
	}
	counters := make([]uint8, nc)
	if err == nil {
		err = binary.Read(r, binary.BigEndian, counters)
	}
	bits := make([]byte, (int(nc)+7)/8)
	if err == nil {
		err = binary.Read(r, binary.BigEndian, bits)
	}
	if err != nil {
		return snap, fmt.Errorf("error unpacking snapshot: %w", err)
	}

	snap.Seq = uint64(seq)
	snap.Time = time.Unix(0, ts)
	snap.Overruns = uint64(overruns)
	snap.Counters = make([]int, nc)
	snap.States = make([]bool, nc)
	for i := range counters {
		snap.Counters[i] = int(counters[i])
		snap.States[i] = bits[i/8]&(1<<(i%8)) != 0
	}
	return snap, nil
}
