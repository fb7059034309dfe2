package mpu6886

import (
	"errors"
	"time"
)

type busWrite struct {
	addr, reg, value byte
	timeout          time.Duration
}

type busRead struct {
	addr, reg byte
	length    int
	timeout   time.Duration
}

// mockBus serves reads from regs and records every transaction.
type mockBus struct {
	regs        map[byte][]byte
	writes      []busWrite
	reads       []busRead
	failWriteAt int   // index of the write that reports 0 bytes, -1 for none
	writeErr    error // returned by every write when set
	readErr     error // returned by every read when set
}

func newMockBus() *mockBus {
	return &mockBus{
		regs:        map[byte][]byte{MPUREG_WHO_AM_I: {ChipID}},
		failWriteAt: -1,
	}
}

func (b *mockBus) Write(addr, reg, value byte, timeout time.Duration) (int, error) {
	i := len(b.writes)
	b.writes = append(b.writes, busWrite{addr, reg, value, timeout})
	if b.writeErr != nil {
		return 0, b.writeErr
	}
	if i == b.failWriteAt {
		return 0, nil
	}
	return 1, nil
}

func (b *mockBus) Read(addr byte, length int, reg byte, timeout time.Duration) ([]byte, error) {
	b.reads = append(b.reads, busRead{addr, reg, length, timeout})
	if b.readErr != nil {
		return nil, b.readErr
	}
	data := b.regs[reg]
	if len(data) > length {
		data = data[:length]
	}
	return append([]byte(nil), data...), nil
}

// sleepRecorder stands in for time.Sleep.
type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.delays = append(s.delays, d)
}

var errTransport = errors.New("transport timeout")

// newTestMPU builds a driver on a fresh mock bus and clears the init transactions.
func newTestMPU() (*MPU6886, *mockBus, error) {
	bus := newMockBus()
	s := new(sleepRecorder)
	mpu, err := NewMPU6886(bus, WithSleep(s.sleep))
	bus.writes = nil
	bus.reads = nil
	return mpu, bus, err
}

// rawBytes encodes raw counts big-endian the way ACCEL_XOUT_H..ZOUT_L holds them.
func rawBytes(x, y, z int16) []byte {
	return []byte{
		byte(uint16(x) >> 8), byte(uint16(x)),
		byte(uint16(y) >> 8), byte(uint16(y)),
		byte(uint16(z) >> 8), byte(uint16(z)),
	}
}
