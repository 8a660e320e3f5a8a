package landmark

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// MeshConfig configures the face mesh sidecar client.
type MeshConfig struct {
	// URL of the sidecar websocket, e.g. ws://127.0.0.1:8765/mesh.
	URL string `yaml:"url" json:"url"`

	// MinConfidence drops faces scored below it.
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence"`

	// Timeout bounds one frame round trip and the handshake.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultMeshConfig returns sidecar defaults.
func DefaultMeshConfig() MeshConfig {
	return MeshConfig{
		URL:           "ws://127.0.0.1:8765/mesh",
		MinConfidence: DefaultMinConf,
		Timeout:       500 * time.Millisecond,
	}
}

// Validate checks that the configuration is valid.
func (c *MeshConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be 0-1, got %f", c.MinConfidence)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// meshReply is the sidecar's answer to one frame.
type meshReply struct {
	Faces []meshFace `json:"faces"`
	Error string     `json:"error,omitempty"`
}

type meshFace struct {
	Score     float64     `json:"score"`
	Landmarks [][]float64 `json:"landmarks"`
}

// MeshClient is an Oracle backed by a face mesh sidecar. Each frame is sent
// as a binary message and answered with one JSON reply. The connection is
// dialed lazily and redialed after any failure.
type MeshClient struct {
	cfg    MeshConfig
	logger *slog.Logger
	dialer websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// NewMeshClient creates a client. No connection is made until the first Sample.
func NewMeshClient(cfg MeshConfig, logger *slog.Logger) (*MeshClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mesh config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MeshClient{
		cfg:    cfg,
		logger: logger,
		dialer: websocket.Dialer{HandshakeTimeout: cfg.Timeout},
	}, nil
}

// Sample sends the frame to the sidecar and converts the best face.
func (m *MeshClient) Sample(frame gaze.Frame) (gaze.Sample, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return gaze.Sample{}, false, ErrClosed
	}

	conn, err := m.connect()
	if err != nil {
		return gaze.Sample{}, false, err
	}

	deadline := time.Now().Add(m.cfg.Timeout)
	conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.BinaryMessage, frame.JPEG); err != nil {
		m.drop()
		return gaze.Sample{}, false, fmt.Errorf("landmark: send frame: %w", err)
	}

	var reply meshReply
	conn.SetReadDeadline(deadline)
	if err := conn.ReadJSON(&reply); err != nil {
		m.drop()
		return gaze.Sample{}, false, fmt.Errorf("landmark: read reply: %w", err)
	}
	if reply.Error != "" {
		return gaze.Sample{}, false, fmt.Errorf("landmark: sidecar: %s", reply.Error)
	}

	return m.pick(reply)
}

func (m *MeshClient) pick(reply meshReply) (gaze.Sample, bool, error) {
	for _, face := range reply.Faces {
		if face.Score < m.cfg.MinConfidence {
			continue
		}
		s, err := FromMesh(face.Landmarks)
		if err != nil {
			return gaze.Sample{}, false, err
		}
		return s, true, nil
	}
	return gaze.Sample{}, false, nil
}

// connect must be called with mu held.
func (m *MeshClient) connect() (*websocket.Conn, error) {
	if m.conn != nil {
		return m.conn, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout)
	defer cancel()

	conn, _, err := m.dialer.DialContext(ctx, m.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("landmark: dial %s: %w", m.cfg.URL, err)
	}
	m.logger.Info("face mesh sidecar connected", "url", m.cfg.URL)
	m.conn = conn
	return conn, nil
}

// drop must be called with mu held.
func (m *MeshClient) drop() {
	if m.conn == nil {
		return
	}
	m.conn.Close()
	m.conn = nil
	m.logger.Warn("face mesh sidecar connection dropped", "url", m.cfg.URL)
}

// Close closes the sidecar connection.
func (m *MeshClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.conn == nil {
		return nil
	}
	err := m.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	m.conn.Close()
	m.conn = nil
	return err
}

var _ Oracle = (*MeshClient)(nil)
