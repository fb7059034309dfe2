package mpu6886

import "time"

// MPU6886 I2C addresses. The driver always talks to Address; AddressAlt is the
// AD0-high strapping and is listed for reference.
const (
	Address    = 0x68
	AddressAlt = 0x69
)

// Register map (subset used by the driver).
const (
	MPUREG_ACCEL_XOUT_H = 0x3B
	MPUREG_TEMP_OUT_H   = 0x41
	MPUREG_GYRO_XOUT_H  = 0x43
	MPUREG_GYRO_CONFIG  = 0x1B
	MPUREG_ACCEL_CONFIG = 0x1C
	MPUREG_PWR_MGMT_1   = 0x6B
	MPUREG_WHO_AM_I     = 0x75
)

const (
	ChipID      = 0x19
	BIT_H_RESET = 0x80
	BIT_WAKE    = 0x00
)

// Full-scale range selectors, written verbatim to ACCEL_CONFIG / GYRO_CONFIG.
const (
	AccelRange2G  AccelRange = 0x00
	AccelRange4G  AccelRange = 0x08
	AccelRange8G  AccelRange = 0x10
	AccelRange16G AccelRange = 0x18

	GyroRange250DPS  GyroRange = 0x00
	GyroRange500DPS  GyroRange = 0x08
	GyroRange1000DPS GyroRange = 0x10
	GyroRange2000DPS GyroRange = 0x18
)

const (
	DefaultAccelRange = AccelRange2G
	DefaultGyroRange  = GyroRange250DPS

	DefaultMotionThreshold = 0.1 // G
)

const (
	tempSensitivity = 326.8 // LSB/°C
	tempOffset      = 25.0  // °C at raw 0
)

// Bus timeouts and settling delays.
const (
	writeTimeout = 2000 * time.Millisecond
	readTimeout  = 1000 * time.Millisecond

	resetSettle  = 100 * time.Millisecond
	wakeSettle   = 10 * time.Millisecond
	configSettle = 10 * time.Millisecond
)
