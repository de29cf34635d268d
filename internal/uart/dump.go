// SPDX-License-Identifier: MIT
package uart

import (
	"io"
	"strconv"
)

// Dump modes.
const (
	DumpNone    = "none"
	DumpSamples = "samples"
	DumpPower   = "power"
)

// Dumper writes human-readable decimal rows: values separated by tabs and
// each row terminated by "\n\r".
type Dumper struct {
	w   io.Writer
	buf []byte
}

// NewDumper writes rows to w.
func NewDumper(w io.Writer) *Dumper {
	return &Dumper{w: w, buf: make([]byte, 0, 512)}
}

// Samples writes one row of signed samples.
func (d *Dumper) Samples(samples []int8) error {
	d.buf = d.buf[:0]
	for _, s := range samples {
		d.buf = strconv.AppendInt(d.buf, int64(s), 10)
		d.buf = append(d.buf, '\t')
	}
	return d.flush()
}

// Power writes one row of power values.
func (d *Dumper) Power(power []uint32) error {
	d.buf = d.buf[:0]
	for _, p := range power {
		d.buf = strconv.AppendUint(d.buf, uint64(p), 10)
		d.buf = append(d.buf, '\t')
	}
	return d.flush()
}

func (d *Dumper) flush() error {
	d.buf = append(d.buf, '\n', '\r')
	_, err := d.w.Write(d.buf)
	return err
}
