// Package mpu6886 drives an InvenSense/TDK MPU6886 6-axis IMU (accelerometer,
// gyroscope and die thermometer) over a register-addressed serial bus.
//
// Every method performs blocking bus transactions and returns only once they
// complete or the transport's timeout expires. An MPU6886 holds no lock: callers
// sharing the driver, or its Bus, between goroutines must serialize access themselves.
package mpu6886

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bash0C7/goflying-mpu6886/sensors"
)

var (
	// ErrIdentityMismatch is returned by NewMPU6886 when WHO_AM_I does not read ChipID.
	ErrIdentityMismatch = errors.New("MPU6886 identity mismatch")
	// ErrBusFault wraps every failed register read or write.
	ErrBusFault = errors.New("MPU6886 bus fault")
)

// Bus is the register-level transport the driver is built on. Write reports the
// number of bytes written; a count of zero or less is a failure even without an error.
// Read returns the bytes read, or an empty slice or error on failure.
type Bus interface {
	Write(addr, reg, value byte, timeout time.Duration) (int, error)
	Read(addr byte, length int, reg byte, timeout time.Duration) ([]byte, error)
}

var logger = log.WithField("device", "MPU6886")

/*
MPU6886 represents a TDK InvenSense MPU6886 6DoF chip.
The zero value is not usable; construct one with NewMPU6886.
*/
type MPU6886 struct {
	bus                   Bus
	sleep                 func(time.Duration)
	now                   func() time.Time
	chipID                byte
	accelRange            AccelRange
	gyroRange             GyroRange
	scaleAccel, scaleGyro float64 // LSB per G, LSB per °/s
}

// Option customizes an MPU6886 at construction.
type Option func(*MPU6886)

// WithSleep replaces time.Sleep for the settling delays of the init sequence.
func WithSleep(sleep func(time.Duration)) Option {
	return func(mpu *MPU6886) {
		mpu.sleep = sleep
	}
}

// WithClock replaces time.Now for sample timestamps.
func WithClock(now func() time.Time) Option {
	return func(mpu *MPU6886) {
		mpu.now = now
	}
}

/*
NewMPU6886 verifies, resets, wakes and configures the MPU6886 on bus, leaving it at
the default ranges (±2G, ±250°/s). If any step fails no driver is returned and the
error wraps ErrIdentityMismatch or ErrBusFault.
*/
func NewMPU6886(bus Bus, opts ...Option) (*MPU6886, error) {
	mpu := &MPU6886{
		bus:        bus,
		sleep:      time.Sleep,
		now:        time.Now,
		accelRange: DefaultAccelRange,
		gyroRange:  DefaultGyroRange,
	}
	mpu.scaleAccel, _ = DefaultAccelRange.Scale()
	mpu.scaleGyro, _ = DefaultGyroRange.Scale()
	for _, opt := range opts {
		opt(mpu)
	}

	if err := mpu.init(); err != nil {
		return nil, err
	}
	return mpu, nil
}

func (mpu *MPU6886) init() error {
	id, err := mpu.readRegister(MPUREG_WHO_AM_I, 1)
	if err != nil {
		return err
	}
	if id[0] != ChipID {
		return errors.Wrapf(ErrIdentityMismatch, "chip ID 0x%02X, expected 0x%02X", id[0], ChipID)
	}
	mpu.chipID = id[0]
	logger.Debug("identity verified")

	if err := mpu.writeRegister(MPUREG_PWR_MGMT_1, BIT_H_RESET); err != nil {
		return err
	}
	mpu.sleep(resetSettle)
	logger.Debug("reset")

	if err := mpu.writeRegister(MPUREG_PWR_MGMT_1, BIT_WAKE); err != nil {
		return err
	}
	mpu.sleep(wakeSettle)
	logger.Debug("awake")

	if err := mpu.SetAccelRange(DefaultAccelRange); err != nil {
		return err
	}
	if err := mpu.SetGyroRange(DefaultGyroRange); err != nil {
		return err
	}
	mpu.sleep(configSettle)
	logger.Debug("configured")

	return nil
}

// ChipID returns the WHO_AM_I byte read at construction.
func (mpu *MPU6886) ChipID() byte {
	return mpu.chipID
}

// AccelRange returns the selector last written to ACCEL_CONFIG.
func (mpu *MPU6886) AccelRange() AccelRange {
	return mpu.accelRange
}

// GyroRange returns the selector last written to GYRO_CONFIG.
func (mpu *MPU6886) GyroRange() GyroRange {
	return mpu.gyroRange
}

// AccelScale returns the LSB/G divisor applied to accelerometer samples.
func (mpu *MPU6886) AccelScale() float64 {
	return mpu.scaleAccel
}

// GyroScale returns the LSB/(°/s) divisor applied to gyroscope samples.
func (mpu *MPU6886) GyroScale() float64 {
	return mpu.scaleGyro
}

/*
SetAccelRange writes r to ACCEL_CONFIG and then updates the accelerometer scale.
An unrecognized r is still written to the chip, but the scale falls back to the
±2G divisor without an error, so readings may no longer match the device setting.
*/
func (mpu *MPU6886) SetAccelRange(r AccelRange) error {
	if err := mpu.writeRegister(MPUREG_ACCEL_CONFIG, byte(r)); err != nil {
		return err
	}
	mpu.accelRange = r
	scale, ok := r.Scale()
	if !ok {
		logger.Debugf("unrecognized accel range 0x%02X, using %s scale", byte(r), DefaultAccelRange)
		scale, _ = DefaultAccelRange.Scale()
	}
	mpu.scaleAccel = scale
	return nil
}

/*
SetGyroRange writes r to GYRO_CONFIG and then updates the gyroscope scale.
An unrecognized r is still written to the chip, but the scale falls back to the
±250°/s divisor without an error.
*/
func (mpu *MPU6886) SetGyroRange(r GyroRange) error {
	if err := mpu.writeRegister(MPUREG_GYRO_CONFIG, byte(r)); err != nil {
		return err
	}
	mpu.gyroRange = r
	scale, ok := r.Scale()
	if !ok {
		logger.Debugf("unrecognized gyro range 0x%02X, using %s scale", byte(r), DefaultGyroRange)
		scale, _ = DefaultGyroRange.Scale()
	}
	mpu.scaleGyro = scale
	return nil
}

// Acceleration reads ACCEL_XOUT_H..ACCEL_ZOUT_L and returns the vector in G.
func (mpu *MPU6886) Acceleration() (sensors.Vector3, error) {
	data, err := mpu.readRegister(MPUREG_ACCEL_XOUT_H, 6)
	if err != nil {
		return sensors.Vector3{}, err
	}
	return vector(data, mpu.scaleAccel), nil
}

// Gyroscope reads GYRO_XOUT_H..GYRO_ZOUT_L and returns the rates in °/s.
func (mpu *MPU6886) Gyroscope() (sensors.Vector3, error) {
	data, err := mpu.readRegister(MPUREG_GYRO_XOUT_H, 6)
	if err != nil {
		return sensors.Vector3{}, err
	}
	return vector(data, mpu.scaleGyro), nil
}

// Temperature returns the die temperature in °C.
func (mpu *MPU6886) Temperature() (float64, error) {
	data, err := mpu.readRegister(MPUREG_TEMP_OUT_H, 2)
	if err != nil {
		return 0, err
	}
	return Celsius(word(data, 0)), nil
}

// ReadAll reads acceleration, rotation rate and temperature as three separate
// bus transactions, in that order.
func (mpu *MPU6886) ReadAll() (*sensors.IMUData, error) {
	d := &sensors.IMUData{T: mpu.now()}
	var err error
	if d.Accel, err = mpu.Acceleration(); err != nil {
		return nil, err
	}
	if d.Gyro, err = mpu.Gyroscope(); err != nil {
		return nil, err
	}
	if d.Temp, err = mpu.Temperature(); err != nil {
		return nil, err
	}
	return d, nil
}

func (mpu *MPU6886) writeRegister(register, value byte) error {
	n, err := mpu.bus.Write(Address, register, value, writeTimeout)
	if err != nil {
		return errors.Wrapf(ErrBusFault, "writing 0x%02X to 0x%02X: %s", value, register, err)
	}
	if n <= 0 {
		return errors.Wrapf(ErrBusFault, "writing 0x%02X to 0x%02X: %d bytes written", value, register, n)
	}
	return nil
}

// readRegister returns exactly length bytes starting at register; short reads are faults.
func (mpu *MPU6886) readRegister(register byte, length int) ([]byte, error) {
	data, err := mpu.bus.Read(Address, length, register, readTimeout)
	if err != nil {
		return nil, errors.Wrapf(ErrBusFault, "reading %d bytes from 0x%02X: %s", length, register, err)
	}
	if len(data) < length {
		return nil, errors.Wrapf(ErrBusFault, "reading %d bytes from 0x%02X: got %d", length, register, len(data))
	}
	return data[:length], nil
}
