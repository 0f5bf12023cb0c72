package panel

import (
	"os"
	"slices"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
)

func TestMain(m *testing.M) {
	sleep = func(time.Duration) {}
	os.Exit(m.Run())
}

type op struct {
	command bool
	b       []byte
}

func cmd(b ...byte) op  { return op{command: true, b: b} }
func data(b ...byte) op { return op{b: b} }

// recordingConn records everything sent to the controller.
type recordingConn struct {
	ops    []op
	resets []gpio.Level
	closed bool
}

func (c *recordingConn) String() string { return "recording" }

func (c *recordingConn) Close() error {
	c.closed = true
	return nil
}

func (c *recordingConn) Reset(level gpio.Level) error {
	c.resets = append(c.resets, level)
	return nil
}

func (c *recordingConn) Command(command byte, args ...byte) error {
	c.ops = append(c.ops, cmd(append([]byte{command}, args...)...))
	return nil
}

func (c *recordingConn) Data(b ...byte) error {
	c.ops = append(c.ops, data(slices.Clone(b)...))
	return nil
}

func TestRotationString(t *testing.T) {
	for r, want := range map[Rotation]string{
		NoRotation:  "0°",
		Rotate90:    "90°",
		Rotate180:   "180°",
		Rotate270:   "270°",
		Rotation(5): "90°",
	} {
		if got := r.String(); got != want {
			t.Errorf("expected %d to be %q, got %q", r, want, got)
		}
	}
}
