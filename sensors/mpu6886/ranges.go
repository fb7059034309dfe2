package mpu6886

import (
	"fmt"

	"github.com/pkg/errors"
)

// AccelRange is the raw ACCEL_CONFIG full-scale selector.
type AccelRange byte

// GyroRange is the raw GYRO_CONFIG full-scale selector.
type GyroRange byte

// Indexed by selector>>3.
var (
	accelScales = [4]float64{16384.0, 8192.0, 4096.0, 2048.0} // LSB/G
	gyroScales  = [4]float64{131.0, 65.5, 32.8, 16.4}         // LSB/(°/s)

	accelFullScale = [4]int{2, 4, 8, 16}
	gyroFullScale  = [4]int{250, 500, 1000, 2000}
)

// rangeIndex maps a selector to its table row; only bits 4:3 may be set.
func rangeIndex(sel byte) (int, bool) {
	if sel&^0x18 != 0 {
		return 0, false
	}
	return int(sel >> 3), true
}

// Scale returns the LSB/G divisor for r and whether r is a recognized selector.
func (r AccelRange) Scale() (float64, bool) {
	i, ok := rangeIndex(byte(r))
	if !ok {
		return 0, false
	}
	return accelScales[i], true
}

// Scale returns the LSB/(°/s) divisor for r and whether r is a recognized selector.
func (r GyroRange) Scale() (float64, bool) {
	i, ok := rangeIndex(byte(r))
	if !ok {
		return 0, false
	}
	return gyroScales[i], true
}

func (r AccelRange) String() string {
	if i, ok := rangeIndex(byte(r)); ok {
		return fmt.Sprintf("±%dG", accelFullScale[i])
	}
	return fmt.Sprintf("AccelRange(0x%02X)", byte(r))
}

func (r GyroRange) String() string {
	if i, ok := rangeIndex(byte(r)); ok {
		return fmt.Sprintf("±%d°/s", gyroFullScale[i])
	}
	return fmt.Sprintf("GyroRange(0x%02X)", byte(r))
}

// AccelRangeFromG returns the selector for a full scale of 2, 4, 8 or 16 G.
func AccelRangeFromG(g int) (AccelRange, error) {
	for i, fs := range accelFullScale {
		if fs == g {
			return AccelRange(i << 3), nil
		}
	}
	return 0, errors.Errorf("MPU6886 Error: %d is not a valid accel sensitivity", g)
}

// GyroRangeFromDPS returns the selector for a full scale of 250, 500, 1000 or 2000 °/s.
func GyroRangeFromDPS(dps int) (GyroRange, error) {
	for i, fs := range gyroFullScale {
		if fs == dps {
			return GyroRange(i << 3), nil
		}
	}
	return 0, errors.Errorf("MPU6886 Error: %d is not a valid gyro sensitivity", dps)
}
