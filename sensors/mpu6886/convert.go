package mpu6886

import "github.com/bash0C7/goflying-mpu6886/sensors"

// Signed16 reinterprets an unsigned 16-bit register pair as two's complement.
func Signed16(v uint16) int {
	if v > 32767 {
		return int(v) - 65536
	}
	return int(v)
}

// word assembles the big-endian value at data[i], data[i+1].
func word(data []byte, i int) int {
	return Signed16(uint16(data[i])<<8 | uint16(data[i+1]))
}

// vector decodes three consecutive big-endian words and divides each by scale.
func vector(data []byte, scale float64) sensors.Vector3 {
	return sensors.Vector3{
		X: float64(word(data, 0)) / scale,
		Y: float64(word(data, 2)) / scale,
		Z: float64(word(data, 4)) / scale,
	}
}

// Celsius converts a raw TEMP_OUT value; it does not depend on any range setting.
func Celsius(raw int) float64 {
	return float64(raw)/tempSensitivity + tempOffset
}
