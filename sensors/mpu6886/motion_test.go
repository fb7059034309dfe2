package mpu6886

import (
	"math"
	"testing"

	"github.com/bash0C7/goflying-mpu6886/sensors"
)

func TestMagnitudeAndMotion(t *testing.T) {
	mpu, bus, err := newTestMPU()
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		x, y, z int16
		mag     float64
		motion  bool
	}{
		{0, 0, 16384, 1.0, false},         // resting flat
		{0, 0, 19661, 1.2, true},          // 1.2G
		{0, 0, 13107, 0.8, true},          // 0.8G
		{0, -16384, 0, 1.0, false},        // on its side
		{9459, 9459, 9459, 1.0, false},    // 1G spread over all axes
		{0, 0, 0, 0, true},                // free fall
		{0, 0, 17203, 1.05, false},        // within threshold
		{-16384, 0, -16384, 1.4142, true}, // √2 G
	}
	for _, c := range cases {
		bus.regs[MPUREG_ACCEL_XOUT_H] = rawBytes(c.x, c.y, c.z)
		m, err := mpu.Magnitude()
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(m-c.mag) > 1e-3 {
			t.Errorf("(%d,%d,%d): magnitude = %f, want %f", c.x, c.y, c.z, m, c.mag)
		}
		motion, err := mpu.MotionDetected(0.1)
		if err != nil {
			t.Fatal(err)
		}
		if motion != c.motion {
			t.Errorf("(%d,%d,%d): MotionDetected = %t, want %t", c.x, c.y, c.z, motion, c.motion)
		}
	}

	bus.regs[MPUREG_ACCEL_XOUT_H] = rawBytes(0, 0, 16384)
	if m, _ := mpu.Magnitude(); m != 1.0 {
		t.Errorf("flat magnitude = %v, want exactly 1.0", m)
	}

	// Every call takes its own reading.
	bus.reads = nil
	mpu.MotionDetected(DefaultMotionThreshold)
	mpu.Magnitude()
	if len(bus.reads) != 2 {
		t.Errorf("%d reads for two calls", len(bus.reads))
	}
}

func TestMotionThreshold(t *testing.T) {
	mpu, bus, err := newTestMPU()
	if err != nil {
		t.Fatal(err)
	}
	bus.regs[MPUREG_ACCEL_XOUT_H] = rawBytes(0, 0, 19661) // 1.2G

	for _, c := range []struct {
		threshold float64
		want      bool
	}{
		{0.1, true},
		{0.3, false},
		{0, true},
		{-1, true},
	} {
		got, err := mpu.MotionDetected(c.threshold)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("threshold %f: MotionDetected = %t, want %t", c.threshold, got, c.want)
		}
	}

	bus.regs[MPUREG_ACCEL_XOUT_H] = rawBytes(0, 0, 17203) // ~1.05G
	for _, c := range []struct {
		threshold float64
		want      bool
	}{
		{0, true},
		{-0.5, true},
		{0.1, false},
	} {
		got, err := mpu.MotionDetected(c.threshold)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("1.05G, threshold %f: MotionDetected = %t, want %t", c.threshold, got, c.want)
		}
	}

	if IsMotion(1.1, 0.1) || IsMotion(0.9, 0.1) {
		t.Error("IsMotion is not strict at the threshold")
	}
}

func TestTiltAngles(t *testing.T) {
	mpu, bus, err := newTestMPU()
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		x, y, z     int16
		pitch, roll float64
	}{
		{0, 0, 16384, 0, 0},
		{16384, 0, 0, 0, -90},
		{-16384, 0, 0, 0, 90},
		{0, 16384, 0, 90, 0},
		{0, -16384, 0, -90, 0},
		{0, 11585, 11585, 45, 0},
		{11585, 0, 11585, 0, -45},
	}
	for _, c := range cases {
		bus.regs[MPUREG_ACCEL_XOUT_H] = rawBytes(c.x, c.y, c.z)
		tilt, err := mpu.TiltAngles()
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(tilt.Pitch-c.pitch) > 1e-3 || math.Abs(tilt.Roll-c.roll) > 1e-3 {
			t.Errorf("(%d,%d,%d): tilt = %+v, want pitch %f roll %f", c.x, c.y, c.z, tilt, c.pitch, c.roll)
		}
	}

	flat := TiltFromAccel(sensors.Vector3{Z: 1})
	if flat.Pitch != 0 || flat.Roll != 0 {
		t.Errorf("flat tilt = %+v", flat)
	}
}

func TestOrientation(t *testing.T) {
	mpu, bus, err := newTestMPU()
	if err != nil {
		t.Fatal(err)
	}

	bus.regs[MPUREG_ACCEL_XOUT_H] = rawBytes(0, 0, 16384)
	q, err := mpu.Orientation()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(q.W-1) > Tolerance || math.Abs(q.X) > Tolerance || math.Abs(q.Y) > Tolerance || math.Abs(q.Z) > Tolerance {
		t.Errorf("flat orientation = %+v, want identity", q)
	}

	// Rolled -90° about Y.
	c45 := math.Sqrt(2) / 2
	bus.regs[MPUREG_ACCEL_XOUT_H] = rawBytes(16384, 0, 0)
	q, err = mpu.Orientation()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(q.W-c45) > 1e-6 || math.Abs(q.X) > 1e-6 || math.Abs(q.Y+c45) > 1e-6 || math.Abs(q.Z) > 1e-6 {
		t.Errorf("rolled orientation = %+v", q)
	}

	// Pitch and roll compose into a unit quaternion.
	q = TiltQuaternion(sensors.Tilt{Pitch: 30, Roll: -20})
	if n := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z); math.Abs(n-1) > Tolerance {
		t.Errorf("|q| = %f", n)
	}
}
