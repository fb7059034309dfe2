package bus

import (
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all" // Empty import needed to initialize embd library.
	"github.com/pkg/errors"
)

// EmbdBus drives a Linux I2C bus through embd.
type EmbdBus struct {
	i2cbus embd.I2CBus
}

// NewEmbdBus opens I2C bus n (e.g. 1 for /dev/i2c-1 on a Raspberry Pi).
func NewEmbdBus(n byte) *EmbdBus {
	return NewEmbdBusFrom(embd.NewI2CBus(n))
}

// NewEmbdBusFrom wraps an already opened embd bus.
func NewEmbdBusFrom(i2cbus embd.I2CBus) *EmbdBus {
	return &EmbdBus{i2cbus: i2cbus}
}

func (b *EmbdBus) Write(addr, reg, value byte, timeout time.Duration) (int, error) {
	err := withTimeout(timeout, func() error {
		return b.i2cbus.WriteByteToReg(addr, reg, value)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "embd: writing %X to %X", value, reg)
	}
	return 1, nil
}

func (b *EmbdBus) Read(addr byte, length int, reg byte, timeout time.Duration) ([]byte, error) {
	buf := make([]byte, length)
	err := withTimeout(timeout, func() error {
		return b.i2cbus.ReadFromReg(addr, reg, buf)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "embd: reading %d bytes from %X", length, reg)
	}
	return buf, nil
}

func (b *EmbdBus) Close() error {
	return b.i2cbus.Close()
}
