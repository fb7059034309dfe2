package sensors

import (
	"math"
	"time"
)

// Vector3 is a reading along the sensor's X, Y and Z axes.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Norm returns the Euclidean length of v.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// IMUData contains all the values measured by an MPU6886 or equivalent 6-axis chip.
// The three readings are separate bus transactions and may be sampled at slightly
// different instants; T is taken before the first of them.
type IMUData struct {
	Accel Vector3   `json:"accel"` // G
	Gyro  Vector3   `json:"gyro"`  // °/s
	Temp  float64   `json:"temp"`  // °C
	T     time.Time `json:"t"`
}

// Tilt holds static tilt angles in degrees.
type Tilt struct {
	Pitch float64 `json:"pitch"` // about X
	Roll  float64 `json:"roll"`  // about Y
}
