package mpu6886web

import (
	"context"
	"encoding/json"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bash0C7/goflying-mpu6886/sensors"
)

// tickPoller emits the same sample on every tick.
type tickPoller struct {
	d sensors.IMUData
}

func (p *tickPoller) Poll(ctx context.Context, interval time.Duration, fn func(*sensors.IMUData)) error {
	clock := time.NewTicker(interval)
	defer clock.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.C:
			d := p.d
			fn(&d)
		}
	}
}

func TestNewSample(t *testing.T) {
	s := NewSample(&sensors.IMUData{Accel: sensors.Vector3{X: 1}}, 0.1)
	if s.Magnitude != 1 || s.Motion || math.Abs(s.Tilt.Roll+90) > 1e-9 {
		t.Errorf("sample = %+v", s)
	}
	s = NewSample(&sensors.IMUData{Accel: sensors.Vector3{Z: 1.5}}, 0.1)
	if !s.Motion {
		t.Errorf("1.5G not reported as motion")
	}
}

func TestStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	room := NewRoom()
	go room.Run(ctx)
	srv := httptest.NewServer(room)
	defer srv.Close()

	p := &tickPoller{d: sensors.IMUData{
		Accel: sensors.Vector3{Z: 1},
		Gyro:  sensors.Vector3{X: 2},
		Temp:  25,
	}}
	ml := NewMPU6886Listener(room, p, 5*time.Millisecond, 0.1)
	go ml.Run(ctx)

	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	c.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := c.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}

	var s Sample
	if err := json.Unmarshal(msg, &s); err != nil {
		t.Fatalf("bad message %s: %s", msg, err)
	}
	if s.Accel.Z != 1 || s.Gyro.X != 2 || s.Temp != 25 || s.Magnitude != 1 || s.Motion {
		t.Errorf("sample = %+v", s)
	}
	if !strings.Contains(string(msg), `"accel":`) || !strings.Contains(string(msg), `"tilt":`) {
		t.Errorf("message fields: %s", msg)
	}
}

func TestForwardAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	room := NewRoom()
	stopped := make(chan struct{})
	go func() {
		room.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	if room.Forward(context.Background(), []byte("x")) {
		t.Error("Forward succeeded on a stopped room")
	}
}

func TestClientLeavesOnDisconnect(t *testing.T) {
	room := NewRoom()
	srv := httptest.NewServer(room)
	defer srv.Close()

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}

	var joined *client
	select {
	case joined = <-room.join:
	case <-time.After(5 * time.Second):
		t.Fatal("client never joined")
	}
	c.Close()

	select {
	case left := <-room.leave:
		if left != joined {
			t.Error("a different client left")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("client never left")
	}
	close(joined.send)
}
