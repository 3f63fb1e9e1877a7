package server

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/papergraph/papergraph/graph"
	"github.com/papergraph/papergraph/interact"
	"github.com/papergraph/papergraph/models"
	"github.com/papergraph/papergraph/physics"
	"github.com/papergraph/papergraph/render"
)

// frameInterval bounds the tick rate when driven by the wall clock.
const frameInterval = 33 * time.Millisecond

// clientMsg is the envelope for messages from the browser.
type clientMsg struct {
	Op     string          `json:"op"`
	Graph  json.RawMessage `json:"graph,omitempty"`
	X      float64         `json:"x,omitempty"`
	Y      float64         `json:"y,omitempty"`
	Factor float64         `json:"factor,omitempty"`
	Type   string          `json:"type,omitempty"`
}

// serverMsg is the envelope for messages to the browser.
type serverMsg struct {
	Op      string        `json:"op"`
	Frame   *render.Frame `json:"frame,omitempty"`
	Kind    string        `json:"kind,omitempty"`
	NodeID  string        `json:"node_id,omitempty"`
	Type    string        `json:"node_type,omitempty"`
	Active  bool          `json:"active,omitempty"`
	Error   string        `json:"error,omitempty"`
	Session string        `json:"session,omitempty"`
}

// session owns one visualization: the view, simulation, controller and
// scene for one WebSocket connection. All state is driven from the
// single run loop; the read pump only feeds the event channel.
type session struct {
	id     string
	logger *zap.Logger
	conn   *websocket.Conn
	cfg    *Config

	view   *graph.View
	sim    *physics.Simulation
	runner *physics.Runner
	ctrl   *interact.Controller
	scene  *render.Scene

	events chan clientMsg
	done   chan struct{}
}

func newSession(conn *websocket.Conn, cfg *Config, logger *zap.Logger) *session {
	id := uuid.New().String()
	return &session{
		id:     id,
		logger: logger.With(zap.String("session", id)),
		conn:   conn,
		cfg:    cfg,
		events: make(chan clientMsg, 64),
		done:   make(chan struct{}),
	}
}

// load installs a graph payload, tearing down any previous simulation
// state so a session can be reused when the paper's graph is
// regenerated.
func (s *session) load(raw json.RawMessage) error {
	g, err := models.DecodeGraph(raw)
	if err != nil {
		return err
	}
	if s.runner != nil {
		s.runner.Stop()
	}
	if s.scene != nil {
		s.scene.Release()
	}

	s.view = graph.NewView(g)
	s.sim = physics.NewSimulation(s.cfg.Physics, s.cfg.Registry, s.logger)
	s.runner = physics.NewRunner(s.sim, nil)
	s.scene = render.NewScene(s.cfg.Render, s.cfg.Registry)
	if err := s.scene.Acquire(); err != nil {
		return err
	}

	events := interact.Events{
		OnNodeHovered: func(id string, _ []string) {
			s.notify(serverMsg{Op: "event", Kind: "hovered", NodeID: id})
		},
		OnNodeDragged: func(id string, _, _ float64) {
			s.notify(serverMsg{Op: "event", Kind: "dragged", NodeID: id})
		},
		OnTypeToggled: func(nodeType string, active bool) {
			s.notify(serverMsg{Op: "event", Kind: "toggled", Type: nodeType, Active: active})
		},
	}
	s.ctrl = interact.NewController(s.cfg.Interact, s.sim, s.runner, s.view, s.cfg.Registry, events, s.logger)
	s.runner.Start()

	s.logger.Info("graph loaded",
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)))
	return nil
}

// run is the session event loop: layout ticks and interaction events
// interleave here, so every component keeps its single-writer contract.
func (s *session) run() {
	defer s.teardown()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	dirty := false
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-s.events:
			if !ok {
				return
			}
			if msg.Op == "stop" {
				return
			}
			s.handle(msg)
			dirty = true
		case <-ticker.C:
			if s.ctrl == nil {
				continue
			}
			ticked := s.runner.Step()
			if ticked || dirty {
				s.sendFrame()
				dirty = false
			}
		}
	}
}

func (s *session) handle(msg clientMsg) {
	if msg.Op == "load" {
		if err := s.load(msg.Graph); err != nil {
			s.logger.Warn("rejecting graph payload", zap.Error(err))
			s.notify(serverMsg{Op: "error", Error: err.Error()})
		}
		return
	}
	if s.ctrl == nil {
		s.notify(serverMsg{Op: "error", Error: "no graph loaded"})
		return
	}

	switch msg.Op {
	case "pointerdown":
		s.ctrl.PointerDown(msg.X, msg.Y)
	case "pointermove":
		s.ctrl.PointerMove(msg.X, msg.Y)
	case "pointerup":
		s.ctrl.PointerUp()
	case "wheel":
		s.ctrl.Zoom(msg.Factor, msg.X, msg.Y)
	case "hover":
		s.ctrl.Hover(msg.X, msg.Y)
	case "leave":
		s.ctrl.Leave()
	case "toggle":
		s.ctrl.ToggleType(msg.Type)
	default:
		s.logger.Debug("ignoring unknown op", zap.String("op", msg.Op))
	}
}

func (s *session) sendFrame() {
	px, py := s.ctrl.Pointer()
	frame := s.scene.Snapshot(s.sim, s.view, s.ctrl.Transform(), s.ctrl.Highlight(), px, py)
	s.notify(serverMsg{Op: "frame", Frame: frame})
}

func (s *session) notify(msg serverMsg) {
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Warn("failed to write websocket message", zap.Error(err))
	}
}

// readPump forwards client messages into the event channel until the
// connection closes.
func (s *session) readPump() {
	defer close(s.events)
	for {
		var msg clientMsg
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		select {
		case s.events <- msg:
		case <-s.done:
			return
		}
	}
}

// teardown halts the tick loop and releases the scene's tooltip; a
// session must never outlive its connection.
func (s *session) teardown() {
	close(s.done)
	if s.runner != nil {
		s.runner.Stop()
	}
	if s.scene != nil {
		s.scene.Release()
	}
	if err := s.conn.Close(); err == nil {
		s.logger.Info("session closed")
	}
}
