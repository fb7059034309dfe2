// Package bus adapts host I2C libraries to the register-level transport used by
// the sensor drivers. Each adapter bounds every transaction by the caller's timeout.
package bus

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/bash0C7/goflying-mpu6886/sensors/mpu6886"
)

// ErrTimeout is returned when a transaction does not complete within its timeout.
var ErrTimeout = errors.New("i2c transaction timed out")

// I2C is a register-level bus that can be released.
type I2C interface {
	mpu6886.Bus
	io.Closer
}

// Driver names accepted by Open.
const (
	DriverEmbd   = "embd"
	DriverPeriph = "periph"
	DriverD2r2   = "d2r2"
)

// Open returns the adapter for driver on I2C bus number n. name is the periph bus
// name and overrides n for that driver when not empty.
func Open(driver string, n int, name string) (I2C, error) {
	switch driver {
	case DriverEmbd, "":
		return NewEmbdBus(byte(n)), nil
	case DriverPeriph:
		if name == "" {
			name = periphBusName(n)
		}
		return OpenPeriphBus(name)
	case DriverD2r2:
		return NewD2r2Bus(n), nil
	default:
		return nil, errors.Errorf("unknown i2c driver %q", driver)
	}
}

// withTimeout runs tx and gives up after timeout. An abandoned tx keeps running
// on its own goroutine until the underlying library returns.
func withTimeout(timeout time.Duration, tx func() error) error {
	if timeout <= 0 {
		return tx()
	}
	done := make(chan error, 1)
	go func() {
		done <- tx()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return errors.Wrapf(ErrTimeout, "after %s", timeout)
	}
}
