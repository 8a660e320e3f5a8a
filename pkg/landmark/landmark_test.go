package landmark

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-gaze/pkg/gaze"
)

func meshPoints() [][]float64 {
	points := make([][]float64, MeshPoints)
	for i := range points {
		points[i] = []float64{0.5, 0.5, 0}
	}
	points[RightIris] = []float64{0.40, 0.50, 0}
	points[LeftIris] = []float64{0.60, 0.54, 0}
	points[LeftUpperLid] = []float64{0.6, 0.500, 0}
	points[LeftLowerLid] = []float64{0.6, 0.525, 0}
	return points
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFromMesh(t *testing.T) {
	s, err := FromMesh(meshPoints())
	if err != nil {
		t.Fatalf("FromMesh failed: %v", err)
	}

	if !approx(s.IrisX, 0.5) || !approx(s.IrisY, 0.52) {
		t.Errorf("expected iris (0.5, 0.52), got (%f, %f)", s.IrisX, s.IrisY)
	}
	if !approx(s.EyelidGap, 0.025) {
		t.Errorf("expected eyelid gap 0.025, got %f", s.EyelidGap)
	}
	if len(s.Pupils) != 2 || s.Pupils[0].X != 0.40 || s.Pupils[1].X != 0.60 {
		t.Errorf("expected both pupils, got %+v", s.Pupils)
	}
}

func TestFromMesh_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
	}{
		{"empty", nil},
		{"no iris refinement", make([][]float64, 468)},
		{"missing coordinate", func() [][]float64 {
			p := meshPoints()
			p[LeftIris] = []float64{0.6}
			return p
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMesh(tt.points)
			if !errors.Is(err, ErrMalformedMesh) {
				t.Errorf("expected ErrMalformedMesh, got %v", err)
			}
		})
	}
}

func TestMeshConfig_Validate(t *testing.T) {
	cfg := DefaultMeshConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
	if cfg.MinConfidence != 0.9 {
		t.Errorf("expected min confidence 0.9, got %f", cfg.MinConfidence)
	}

	bad := []func(*MeshConfig){
		func(c *MeshConfig) { c.URL = "" },
		func(c *MeshConfig) { c.MinConfidence = 1.5 },
		func(c *MeshConfig) { c.Timeout = 0 },
	}
	for i, modify := range bad {
		c := DefaultMeshConfig()
		modify(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

// sidecar answers every binary frame with reply(frame).
func sidecar(t *testing.T, reply func(frame []byte) any) (*httptest.Server, string) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.BinaryMessage {
				continue
			}
			if err := conn.WriteJSON(reply(data)); err != nil {
				return
			}
		}
	}))
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newTestClient(t *testing.T, url string) *MeshClient {
	t.Helper()
	cfg := DefaultMeshConfig()
	cfg.URL = url
	cfg.Timeout = 2 * time.Second
	client, err := NewMeshClient(cfg, nil)
	if err != nil {
		t.Fatalf("NewMeshClient failed: %v", err)
	}
	return client
}

func TestMeshClient_Sample(t *testing.T) {
	var got []byte
	srv, url := sidecar(t, func(frame []byte) any {
		got = frame
		return meshReply{Faces: []meshFace{{Score: 0.97, Landmarks: meshPoints()}}}
	})
	defer srv.Close()

	client := newTestClient(t, url)
	defer client.Close()

	s, ok, err := client.Sample(gaze.Frame{JPEG: []byte{0xFF, 0xD8, 0x01}})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a face")
	}
	if !approx(s.IrisX, 0.5) {
		t.Errorf("expected iris x 0.5, got %f", s.IrisX)
	}
	if len(got) != 3 || got[0] != 0xFF {
		t.Errorf("sidecar received %v", got)
	}

	// Connection is reused
	if _, ok, err := client.Sample(gaze.Frame{JPEG: []byte{1}}); err != nil || !ok {
		t.Errorf("second Sample: ok=%v err=%v", ok, err)
	}
}

func TestMeshClient_LowConfidence(t *testing.T) {
	srv, url := sidecar(t, func([]byte) any {
		return meshReply{Faces: []meshFace{{Score: 0.5, Landmarks: meshPoints()}}}
	})
	defer srv.Close()

	client := newTestClient(t, url)
	defer client.Close()

	_, ok, err := client.Sample(gaze.Frame{JPEG: []byte{1}})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if ok {
		t.Error("expected low-confidence face to be dropped")
	}
}

func TestMeshClient_NoFace(t *testing.T) {
	srv, url := sidecar(t, func([]byte) any { return meshReply{} })
	defer srv.Close()

	client := newTestClient(t, url)
	defer client.Close()

	_, ok, err := client.Sample(gaze.Frame{JPEG: []byte{1}})
	if err != nil || ok {
		t.Errorf("expected no face without error, got ok=%v err=%v", ok, err)
	}
}

func TestMeshClient_SidecarError(t *testing.T) {
	srv, url := sidecar(t, func([]byte) any { return meshReply{Error: "decode failed"} })
	defer srv.Close()

	client := newTestClient(t, url)
	defer client.Close()

	_, _, err := client.Sample(gaze.Frame{JPEG: []byte{1}})
	if err == nil || !strings.Contains(err.Error(), "decode failed") {
		t.Errorf("expected sidecar error, got %v", err)
	}
}

func TestMeshClient_Unreachable(t *testing.T) {
	srv, url := sidecar(t, func([]byte) any { return meshReply{} })
	srv.Close()

	client := newTestClient(t, url)
	defer client.Close()

	if _, _, err := client.Sample(gaze.Frame{JPEG: []byte{1}}); err == nil {
		t.Error("expected dial error")
	}
}

func TestMeshClient_Closed(t *testing.T) {
	client := newTestClient(t, "ws://127.0.0.1:1/mesh")
	client.Close()

	if _, _, err := client.Sample(gaze.Frame{}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestScript(t *testing.T) {
	want := gaze.Sample{IrisX: 0.3, IrisY: 0.4, EyelidGap: 0.02}
	s := NewScript(Face(want), NoFace())

	got, ok, err := s.Sample(gaze.Frame{Seq: 1})
	if err != nil || !ok || got.IrisX != want.IrisX {
		t.Errorf("expected %+v, got %+v ok=%v err=%v", want, got, ok, err)
	}

	if _, ok, err := s.Sample(gaze.Frame{Seq: 2}); ok || err != nil {
		t.Errorf("expected no face, got ok=%v err=%v", ok, err)
	}

	if _, _, err := s.Sample(gaze.Frame{Seq: 3}); !errors.Is(err, ErrScriptDone) {
		t.Errorf("expected ErrScriptDone, got %v", err)
	}

	frames := s.Frames()
	if len(frames) != 3 || frames[2].Seq != 3 {
		t.Errorf("expected 3 frames recorded, got %+v", frames)
	}
}
