package mpu6886

import (
	"math"

	"github.com/westphae/quaternion"

	"github.com/bash0C7/goflying-mpu6886/sensors"
)

const deg = 180 / math.Pi

// Magnitude takes a fresh accelerometer reading and returns its norm in G.
func (mpu *MPU6886) Magnitude() (float64, error) {
	a, err := mpu.Acceleration()
	if err != nil {
		return 0, err
	}
	return a.Norm(), nil
}

// TiltAngles takes a fresh accelerometer reading and returns the static tilt.
// Only meaningful when gravity is the sole acceleration acting on the sensor.
func (mpu *MPU6886) TiltAngles() (sensors.Tilt, error) {
	a, err := mpu.Acceleration()
	if err != nil {
		return sensors.Tilt{}, err
	}
	return TiltFromAccel(a), nil
}

// MotionDetected reports whether a fresh acceleration magnitude lies outside
// 1±threshold G. Callers without a preference pass DefaultMotionThreshold.
func (mpu *MPU6886) MotionDetected(threshold float64) (bool, error) {
	m, err := mpu.Magnitude()
	if err != nil {
		return false, err
	}
	return IsMotion(m, threshold), nil
}

// Orientation takes a fresh accelerometer reading and returns the static tilt as
// a unit quaternion (pitch about X, then roll about Y). Yaw is unobservable and is zero.
func (mpu *MPU6886) Orientation() (quaternion.Quaternion, error) {
	a, err := mpu.Acceleration()
	if err != nil {
		return quaternion.Quaternion{}, err
	}
	return TiltQuaternion(TiltFromAccel(a)), nil
}

// TiltFromAccel computes pitch and roll in degrees from an acceleration vector.
func TiltFromAccel(a sensors.Vector3) sensors.Tilt {
	return sensors.Tilt{
		Pitch: math.Atan2(a.Y, math.Sqrt(a.X*a.X+a.Z*a.Z)) * deg,
		Roll:  math.Atan2(-a.X, math.Sqrt(a.Y*a.Y+a.Z*a.Z)) * deg,
	}
}

// IsMotion is the deviation-from-1G test behind MotionDetected.
func IsMotion(magnitude, threshold float64) bool {
	return magnitude > 1.0+threshold || magnitude < 1.0-threshold
}

// TiltQuaternion rotates by t.Pitch about X and then t.Roll about Y.
func TiltQuaternion(t sensors.Tilt) quaternion.Quaternion {
	hp, hr := t.Pitch/deg/2, t.Roll/deg/2
	qp := quaternion.Quaternion{W: math.Cos(hp), X: math.Sin(hp)}
	qr := quaternion.Quaternion{W: math.Cos(hr), Y: math.Sin(hr)}
	return quaternion.Prod(qp, qr).Unit()
}
