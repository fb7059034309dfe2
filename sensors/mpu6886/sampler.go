package mpu6886

import (
	"context"
	"time"

	"github.com/bash0C7/goflying-mpu6886/sensors"
)

// Poll calls ReadAll every interval and hands each sample to fn until ctx is done.
// Failed reads are logged and skipped; the next tick retries.
// Poll runs on the calling goroutine and returns ctx.Err().
func (mpu *MPU6886) Poll(ctx context.Context, interval time.Duration, fn func(*sensors.IMUData)) error {
	clock := time.NewTicker(interval)
	defer clock.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.C:
			d, err := mpu.ReadAll()
			if err != nil {
				logger.Warnf("error reading gyro/accel: %s", err)
				continue
			}
			fn(d)
		}
	}
}
