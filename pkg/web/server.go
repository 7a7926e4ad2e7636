// Package web provides a small live dashboard for a teleoperation session:
// JSON status endpoints plus a WebSocket stream of command events.
package web

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-teleop/internal/config"
	"github.com/teslashibe/go-teleop/pkg/command"
	"github.com/teslashibe/go-teleop/pkg/hub"
	"github.com/teslashibe/go-teleop/pkg/protocol"
	"github.com/teslashibe/go-teleop/pkg/teleop"
)

// Status is the payload served by /api/status.
type Status struct {
	Session     string               `json:"session"`
	Lifecycle   string               `json:"lifecycle"`
	LastCommand command.RobotCommand `json:"last_command"`
	Clients     int                  `json:"clients"`
}

// Ensure Server implements the controller's sink contract
var _ teleop.EventSink = (*Server)(nil)

// Server is the dashboard server. It implements teleop.EventSink so the
// controller pushes events straight into the broadcast hub.
type Server struct {
	app    *fiber.App
	port   int
	ctrl   *teleop.Controller
	cfg    config.Config
	events *hub.Hub

	mu      sync.RWMutex
	lastCmd command.RobotCommand
}

// NewServer creates a dashboard server for the given controller.
func NewServer(port int, ctrl *teleop.Controller, cfg config.Config) *Server {
	s := &Server{
		port:    port,
		ctrl:    ctrl,
		cfg:     cfg,
		events:  hub.New("events"),
		lastCmd: command.Halt,
	}

	app := fiber.New(fiber.Config{
		AppName:               "Teleop Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/config", s.handleConfig)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEvents))

	s.app = app
	return s
}

// Run starts the hub and serves HTTP. Blocks until Close is called.
func (s *Server) Run() error {
	go s.events.Run()
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// Close shuts the HTTP server down and stops the event hub.
func (s *Server) Close() error {
	err := s.app.ShutdownWithTimeout(time.Second)
	s.events.Stop()
	return err
}

// OnCommand implements teleop.EventSink.
func (s *Server) OnCommand(cmd command.RobotCommand, heartbeat bool) {
	s.mu.Lock()
	s.lastCmd = cmd
	s.mu.Unlock()

	typ := protocol.TypeCommand
	if heartbeat {
		typ = protocol.TypeHeartbeat
	}
	msg, err := protocol.NewMessage(typ, protocol.CommandEvent{
		Session:   s.ctrl.Session(),
		Command:   cmd,
		Heartbeat: heartbeat,
	})
	if err != nil {
		return
	}
	s.events.BroadcastJSON(msg)
}

// OnShutdown implements teleop.EventSink.
func (s *Server) OnShutdown(cause teleop.StopCause, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	msg, merr := protocol.NewMessage(protocol.TypeShutdown, protocol.ShutdownEvent{
		Session: s.ctrl.Session(),
		Cause:   cause.String(),
		Detail:  detail,
	})
	if merr != nil {
		return
	}
	s.events.BroadcastJSON(msg)
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.mu.RLock()
	last := s.lastCmd
	s.mu.RUnlock()

	return c.JSON(Status{
		Session:     s.ctrl.Session(),
		Lifecycle:   s.ctrl.State().String(),
		LastCommand: last,
		Clients:     s.events.ClientCount(),
	})
}

func (s *Server) handleConfig(c *fiber.Ctx) error {
	return c.JSON(s.cfg)
}

func (s *Server) handleEvents(conn *websocket.Conn) {
	hub.NewClient(s.events, conn).Run()
}
