package sensors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// SampleHeader names the columns written by SampleLogger.
var SampleHeader = []string{"T", "A1", "A2", "A3", "G1", "G2", "G3", "Temp"}

// SampleLogger writes IMUData rows as CSV, seconds since the first sample first.
type SampleLogger struct {
	w   io.Writer
	c   io.Closer
	fmt string
	t0  time.Time
}

// NewSampleLogger creates filename and writes the header line.
func NewSampleLogger(filename string) (*SampleLogger, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	l, err := NewSampleWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	l.c = f
	return l, nil
}

// NewSampleWriter writes the header line to w and logs subsequent samples to it.
func NewSampleWriter(w io.Writer) (*SampleLogger, error) {
	l := &SampleLogger{w: w}
	if _, err := fmt.Fprint(w, strings.Join(SampleHeader, ","), "\n"); err != nil {
		return nil, err
	}
	s := strings.Repeat("%f,", len(SampleHeader))
	l.fmt = strings.Join([]string{s[:len(s)-1], "\n"}, "")
	return l, nil
}

func (l *SampleLogger) Log(d *IMUData) error {
	if l.t0.IsZero() {
		l.t0 = d.T
	}
	_, err := fmt.Fprintf(l.w, l.fmt,
		d.T.Sub(l.t0).Seconds(),
		d.Accel.X, d.Accel.Y, d.Accel.Z,
		d.Gyro.X, d.Gyro.Y, d.Gyro.Z,
		d.Temp)
	return err
}

func (l *SampleLogger) Close() error {
	if l.c == nil {
		return nil
	}
	return l.c.Close()
}
