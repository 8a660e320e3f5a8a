package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-gaze/pkg/hub"
)

// handleStatus returns the session snapshot
func (s *Server) handleStatus(c *fiber.Ctx) error {
	if s.Status == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no session attached",
		})
	}
	return c.JSON(s.Status())
}

// handleStart leaves the start screen
func (s *Server) handleStart(c *fiber.Ctx) error {
	if s.OnStart == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no session attached",
		})
	}
	s.OnStart()
	s.AddLog("info", "Calibration started from dashboard")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"started": true})
}

// handleCanvas returns the current canvas instruction
func (s *Server) handleCanvas(c *fiber.Ctx) error {
	s.canvasMu.RLock()
	defer s.canvasMu.RUnlock()
	return c.JSON(s.canvas)
}

// handleGetLogs returns recent log entries
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// handleGetCamera returns the camera settings
func (s *Server) handleGetCamera(c *fiber.Ctx) error {
	if s.Camera == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "camera control not configured",
		})
	}
	return c.JSON(s.Camera.GetConfigJSON())
}

// handleUpdateCamera applies a partial camera update, e.g. {"preset":"low"}
func (s *Server) handleUpdateCamera(c *fiber.Ctx) error {
	if s.Camera == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "camera control not configured",
		})
	}

	var params map[string]interface{}
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}
	if err := s.Camera.UpdateConfig(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	s.AddLog("info", "Camera settings updated")
	return c.JSON(s.Camera.GetConfigJSON())
}

// serveHub attaches a websocket connection to h until it closes
func (s *Server) serveHub(h *hub.Hub) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		hub.NewClient(h, conn).Run()
	}
}
