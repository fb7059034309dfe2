package bus

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// PeriphBus drives an I2C bus through periph.io.
type PeriphBus struct {
	i2cbus i2c.Bus
	closer io.Closer
}

func periphBusName(n int) string {
	return fmt.Sprintf("/dev/i2c-%d", n)
}

// OpenPeriphBus initializes the periph host drivers and opens the named bus.
// An empty name opens the first bus found.
func OpenPeriphBus(name string) (*PeriphBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph: host init")
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "periph: opening %q", name)
	}
	return &PeriphBus{i2cbus: b, closer: b}, nil
}

// NewPeriphBusFrom wraps an already opened periph bus; Close is then a no-op.
func NewPeriphBusFrom(i2cbus i2c.Bus) *PeriphBus {
	return &PeriphBus{i2cbus: i2cbus}
}

func (b *PeriphBus) Write(addr, reg, value byte, timeout time.Duration) (int, error) {
	w := []byte{reg, value}
	err := withTimeout(timeout, func() error {
		return b.i2cbus.Tx(uint16(addr), w, nil)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "periph: writing %X to %X", value, reg)
	}
	return 1, nil
}

func (b *PeriphBus) Read(addr byte, length int, reg byte, timeout time.Duration) ([]byte, error) {
	r := make([]byte, length)
	err := withTimeout(timeout, func() error {
		return b.i2cbus.Tx(uint16(addr), []byte{reg}, r)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "periph: reading %d bytes from %X", length, reg)
	}
	return r, nil
}

func (b *PeriphBus) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}
