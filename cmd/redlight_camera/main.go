// Command redlight_camera runs the capture pipeline against a scripted
// fake host. Useful for exercising the full frame schedule, journal and
// status plumbing without a simulator attached.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redlightcam/extension/internal/plugin"
	"github.com/redlightcam/extension/internal/sim"
	"github.com/redlightcam/extension/internal/trigger"
)

func main() {
	configDir := flag.String("config-dir", ".", "directory holding redlight_camera.cfg.json, logs and the journal")
	frames := flag.Int("frames", 12, "number of frames to simulate")
	fineFrame := flag.Int("fine-frame", 2, "frame at which the fine event fires")
	flag.Parse()

	if err := run(*configDir, *frames, *fineFrame); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir string, frames, fineFrame int) error {
	host := newFakeHost()

	p := plugin.New(plugin.Options{
		ConfigDir: configDir,
		Ports: plugin.Ports{
			Camera:    host,
			Telemetry: host,
			Console:   host,
			Overlay:   host,
		},
	})
	if err := p.Init(); err != nil {
		return err
	}
	defer p.Shutdown(context.Background())

	for i := 1; i <= frames; i++ {
		host.advance()

		if i == fineFrame {
			p.Event(sim.GameplayEvent{
				ID:        trigger.EventFined,
				Fields:    map[string]string{trigger.OffenceField: trigger.OffenceRedSignal},
				Timestamp: time.Now(),
			})
		}

		p.Frame()
		p.Draw()

		fmt.Printf("frame %2d  camera=%-8s  pos=(%.1f, %.1f, %.1f)\n",
			i, host.cameraType, host.pose.Position.X, host.pose.Position.Y, host.pose.Position.Z)
	}

	for i, cmd := range host.commands {
		fmt.Printf("console command %d: %s\n", i+1, cmd)
	}

	snapshot, err := p.Status()
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("status: %s\n", out)
	return nil
}

// fakeHost is a minimal scripted host. The vehicle drives north at a
// steady clip while the free camera tracks whatever the plugin sets.
type fakeHost struct {
	cameraType sim.CameraType
	freePos    [3]float32
	pose       sim.VehiclePose
	simTime    uint64
	commands   []string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		cameraType: sim.CameraChase,
		pose: sim.VehiclePose{
			Position: sim.Vec3{X: 1000, Y: 50, Z: 2000},
			Heading:  0, // due north
		},
	}
}

func (h *fakeHost) advance() {
	h.pose.Position.Z += 8.5
	h.simTime += 16667 // ~60fps in microseconds
}

// CameraPort

func (h *fakeHost) CurrentType() (sim.CameraType, bool) { return h.cameraType, true }

func (h *fakeHost) SwitchTo(t sim.CameraType) error {
	h.cameraType = t
	return nil
}

func (h *fakeHost) FreePosition() (x, y, z float32, ok bool) {
	return h.freePos[0], h.freePos[1], h.freePos[2], true
}

func (h *fakeHost) SetFreePosition(x, y, z float32) error {
	h.freePos = [3]float32{x, y, z}
	return nil
}

func (h *fakeHost) SetFreeOrientation(yaw, pitch, roll float32) error { return nil }

func (h *fakeHost) SetFreeFov(fov float32) error { return nil }

func (h *fakeHost) WorldCoordinates() (sim.Vec3, bool) {
	return sim.Vec3{
		X: float64(h.freePos[0]),
		Y: float64(h.freePos[1]),
		Z: float64(h.freePos[2]),
	}, true
}

func (h *fakeHost) InteriorHeadRotation() (yaw, pitch float32, ok bool) { return 0, 0, true }

func (h *fakeHost) SetInteriorHeadRotation(yaw, pitch float32) error { return nil }

// TelemetryPort

func (h *fakeHost) VehiclePose() (sim.VehiclePose, bool) { return h.pose, true }

func (h *fakeHost) SimTimestamp() uint64 { return h.simTime }

// ConsolePort

func (h *fakeHost) Execute(command string) {
	h.commands = append(h.commands, command)
}

// OverlayPort

func (h *fakeHost) ViewportSize() (w, h2 float32) { return 1920, 1080 }

func (h *fakeHost) DrawFilledRect(x1, y1, x2, y2, r, g, b, a float32) {}

func (h *fakeHost) SetVisible(visible bool) {}
