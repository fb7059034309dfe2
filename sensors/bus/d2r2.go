package bus

import (
	"sync"
	"time"

	i2c "github.com/d2r2/go-i2c"
	logger "github.com/d2r2/go-logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// regDevice is the part of a d2r2 *i2c.I2C the adapter uses.
type regDevice interface {
	ReadRegBytes(reg byte, n int) ([]byte, int, error)
	WriteRegU8(reg byte, value byte) error
	Close() error
}

// d2r2Device serializes transfers to one address. go-i2c does no locking of
// its own, and a transfer abandoned by its timeout still holds mu until it returns.
type d2r2Device struct {
	mu sync.Mutex
	regDevice
}

// D2r2Bus drives a Linux I2C bus through d2r2/go-i2c, which binds one
// connection to each device address; connections are opened on first use.
// A transfer to an address waits for any earlier one, including one that
// already timed out, so a hung device makes later calls time out too.
type D2r2Bus struct {
	n    int
	open func(addr uint8, n int) (regDevice, error)

	mu   sync.Mutex
	devs map[byte]*d2r2Device
}

// NewD2r2Bus prepares bus n. go-i2c logs every transfer at debug level, so
// its package logger is lowered to info.
func NewD2r2Bus(n int) *D2r2Bus {
	if err := logger.ChangePackageLogLevel("i2c", logger.InfoLevel); err != nil {
		log.Debugln("d2r2: cannot quiet go-i2c logging:", err)
	}
	return newD2r2Bus(n, func(addr uint8, n int) (regDevice, error) {
		return i2c.NewI2C(addr, n)
	})
}

func newD2r2Bus(n int, open func(addr uint8, n int) (regDevice, error)) *D2r2Bus {
	return &D2r2Bus{n: n, open: open, devs: make(map[byte]*d2r2Device)}
}

func (b *D2r2Bus) device(addr byte) (*d2r2Device, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d, ok := b.devs[addr]; ok {
		return d, nil
	}
	rd, err := b.open(addr, b.n)
	if err != nil {
		return nil, errors.Wrapf(err, "d2r2: opening device %X on bus %d", addr, b.n)
	}
	d := &d2r2Device{regDevice: rd}
	b.devs[addr] = d
	return d, nil
}

func (b *D2r2Bus) Write(addr, reg, value byte, timeout time.Duration) (int, error) {
	d, err := b.device(addr)
	if err != nil {
		return 0, err
	}
	err = withTimeout(timeout, func() error {
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.WriteRegU8(reg, value)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "d2r2: writing %X to %X", value, reg)
	}
	return 1, nil
}

func (b *D2r2Bus) Read(addr byte, length int, reg byte, timeout time.Duration) ([]byte, error) {
	d, err := b.device(addr)
	if err != nil {
		return nil, err
	}
	var buf []byte
	err = withTimeout(timeout, func() error {
		d.mu.Lock()
		defer d.mu.Unlock()
		var n int
		var rerr error
		buf, n, rerr = d.ReadRegBytes(reg, length)
		if rerr == nil && n < length {
			rerr = errors.Errorf("short read: %d of %d bytes", n, length)
		}
		return rerr
	})
	if err != nil {
		return nil, errors.Wrapf(err, "d2r2: reading %d bytes from %X", length, reg)
	}
	return buf, nil
}

// Close releases every device connection opened so far.
func (b *D2r2Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var first error
	for addr, d := range b.devs {
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
		delete(b.devs, addr)
	}
	return first
}
