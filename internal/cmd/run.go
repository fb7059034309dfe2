package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bash0C7/goflying-mpu6886/internal/config"
	"github.com/bash0C7/goflying-mpu6886/mpu6886web"
	"github.com/bash0C7/goflying-mpu6886/sensors"
	"github.com/bash0C7/goflying-mpu6886/sensors/bus"
	"github.com/bash0C7/goflying-mpu6886/sensors/mpu6886"
)

// openBus is replaced in tests.
var openBus = func(o config.Opt) (mpu6886.Bus, io.Closer, error) {
	b, err := bus.Open(o.Bus.Driver, o.Bus.Number, o.Bus.Name)
	if err != nil {
		return nil, nil, err
	}
	return b, b, nil
}

// openSensor brings up the sensor described by o at its configured ranges.
func openSensor(o config.Opt) (*mpu6886.MPU6886, io.Closer, error) {
	b, closer, err := openBus(o)
	if err != nil {
		return nil, nil, err
	}
	mpu, err := mpu6886.NewMPU6886(b)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}

	ar, err := mpu6886.AccelRangeFromG(o.Sensor.AccelRange)
	if err == nil {
		err = mpu.SetAccelRange(ar)
	}
	if err == nil {
		var gr mpu6886.GyroRange
		if gr, err = mpu6886.GyroRangeFromDPS(o.Sensor.GyroRange); err == nil {
			err = mpu.SetGyroRange(gr)
		}
	}
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	log.Debugf("MPU6886 ready on %s bus %d: %s, %s", o.Bus.Driver, o.Bus.Number, mpu.AccelRange(), mpu.GyroRange())
	return mpu, closer, nil
}

func ReadCmdRunE(cmd *cobra.Command, _ []string) error {
	o, err := config.Parse(cmd)
	if err != nil {
		return err
	}
	mpu, closer, err := openSensor(o)
	if err != nil {
		return err
	}
	defer closer.Close()
	return printReading(cmd.OutOrStdout(), mpu, o.Sensor.MotionThreshold)
}

// printReading prints one sample and the metrics derived from its acceleration.
func printReading(w io.Writer, mpu *mpu6886.MPU6886, threshold float64) error {
	d, err := mpu.ReadAll()
	if err != nil {
		return err
	}
	tilt := mpu6886.TiltFromAccel(d.Accel)
	m := d.Accel.Norm()
	motion := mpu6886.IsMotion(m, threshold)
	q := mpu6886.TiltQuaternion(tilt)

	fmt.Fprintf(w, "accel (G):      %.4f, %.4f, %.4f\n", d.Accel.X, d.Accel.Y, d.Accel.Z)
	fmt.Fprintf(w, "gyro (°/s):     %.3f, %.3f, %.3f\n", d.Gyro.X, d.Gyro.Y, d.Gyro.Z)
	fmt.Fprintf(w, "temp (°C):      %.2f\n", d.Temp)
	fmt.Fprintf(w, "pitch, roll:    %.2f, %.2f\n", tilt.Pitch, tilt.Roll)
	fmt.Fprintf(w, "magnitude (G):  %.4f\n", m)
	fmt.Fprintf(w, "motion:         %t\n", motion)
	fmt.Fprintf(w, "orientation:    %.4f, %.4f, %.4f, %.4f\n", q.W, q.X, q.Y, q.Z)
	return nil
}

func StreamCmdRunE(cmd *cobra.Command, _ []string) error {
	o, err := config.Parse(cmd)
	if err != nil {
		return err
	}
	l, err := sensors.NewSampleWriter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return pollTo(cmd.Context(), o, l)
}

func LogCmdRunE(cmd *cobra.Command, _ []string) error {
	o, err := config.Parse(cmd)
	if err != nil {
		return err
	}
	if o.Log.File == "" {
		return errors.New("no output file: use --output or log.file")
	}
	l, err := sensors.NewSampleLogger(o.Log.File)
	if err != nil {
		return err
	}
	defer l.Close()
	log.Infoln("logging samples to", o.Log.File)
	return pollTo(cmd.Context(), o, l)
}

func pollTo(ctx context.Context, o config.Opt, l *sensors.SampleLogger) error {
	mpu, closer, err := openSensor(o)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signalContext(ctx)
	defer stop()
	err = mpu.Poll(ctx, o.Stream.Interval, func(d *sensors.IMUData) {
		if err := l.Log(d); err != nil {
			log.Warnln("error writing sample:", err)
		}
	})
	return ignoreCanceled(err)
}

func ServeCmdRunE(cmd *cobra.Command, _ []string) error {
	o, err := config.Parse(cmd)
	if err != nil {
		return err
	}
	mpu, closer, err := openSensor(o)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	r := mpu6886web.NewRoom()
	mux := http.NewServeMux()
	mux.Handle("/imu", r)
	srv := &http.Server{Addr: o.WebAddr(), Handler: mux}

	go r.Run(ctx)
	ml := mpu6886web.NewMPU6886Listener(r, mpu, o.Stream.Interval, o.Sensor.MotionThreshold)
	go func() {
		if err := ml.Run(ctx); ignoreCanceled(err) != nil {
			log.Errorln("MPU6886 listener stopped:", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infoln("starting web server on", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
