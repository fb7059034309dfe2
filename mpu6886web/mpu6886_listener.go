package mpu6886web

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bash0C7/goflying-mpu6886/sensors"
	"github.com/bash0C7/goflying-mpu6886/sensors/mpu6886"
)

// Sample is the JSON message sent to browsers. Tilt, Magnitude and Motion are
// derived from the sample's own acceleration, without further bus reads.
type Sample struct {
	sensors.IMUData
	Tilt      sensors.Tilt `json:"tilt"`
	Magnitude float64      `json:"magnitude"`
	Motion    bool         `json:"motion"`
}

// NewSample derives the tilt and motion fields for d.
func NewSample(d *sensors.IMUData, threshold float64) *Sample {
	m := d.Accel.Norm()
	return &Sample{
		IMUData:   *d,
		Tilt:      mpu6886.TiltFromAccel(d.Accel),
		Magnitude: m,
		Motion:    mpu6886.IsMotion(m, threshold),
	}
}

// Poller produces samples until ctx is done; *mpu6886.MPU6886 is one.
type Poller interface {
	Poll(ctx context.Context, interval time.Duration, fn func(*sensors.IMUData)) error
}

// MPU6886Listener polls a sensor and forwards each sample to a Room.
type MPU6886Listener struct {
	r         *Room
	mpu       Poller
	interval  time.Duration
	threshold float64
}

func NewMPU6886Listener(r *Room, mpu Poller, interval time.Duration, threshold float64) *MPU6886Listener {
	return &MPU6886Listener{r: r, mpu: mpu, interval: interval, threshold: threshold}
}

// Run forwards samples until ctx is done.
func (ml *MPU6886Listener) Run(ctx context.Context) error {
	return ml.mpu.Poll(ctx, ml.interval, func(d *sensors.IMUData) {
		msg, err := json.Marshal(NewSample(d, ml.threshold))
		if err != nil {
			log.Errorln("MPU6886Web: error marshalling json data:", err)
			return
		}
		ml.r.Forward(ctx, msg)
	})
}
