// Package physics implements the force-directed layout simulation. It
// owns all mutable per-node layout state and advances it tick by tick
// under a decaying alpha until the layout converges.
package physics

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/quartercastle/vector"
	"go.uber.org/zap"

	"github.com/papergraph/papergraph/models"
)

// minDistance floors pairwise distances before inverse-square terms so a
// coincident node pair never divides by zero.
const minDistance = 1.0

// Config holds the simulation tuning parameters. Zero values are
// replaced by defaults in NewSimulation.
type Config struct {
	Width  float64
	Height float64

	// LinkDistance is the target separation for connected nodes. When
	// zero the target is derived from the endpoint radii.
	LinkDistance float64
	LinkStrength float64

	// ChargeStrength is negative for repulsion.
	ChargeStrength float64

	CenterStrength  float64
	CollidePadding  float64
	CollideStrength float64
	ClusterStrength float64

	AlphaDecay    float64
	AlphaMin      float64
	VelocityDecay float64

	// Seed drives initial placement; identical seeds and payloads give
	// identical layouts.
	Seed       int64
	SeedJitter float64
}

// DefaultConfig returns the tuning used by the paper graph view.
func DefaultConfig() Config {
	return Config{
		Width:           800,
		Height:          600,
		LinkStrength:    0.3,
		ChargeStrength:  -60,
		CenterStrength:  0.05,
		CollidePadding:  2,
		CollideStrength: 0.7,
		ClusterStrength: 0.1,
		AlphaDecay:      0.0228,
		AlphaMin:        0.001,
		VelocityDecay:   0.4,
		Seed:            1,
		SeedJitter:      10,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.LinkStrength == 0 {
		c.LinkStrength = d.LinkStrength
	}
	if c.ChargeStrength == 0 {
		c.ChargeStrength = d.ChargeStrength
	}
	if c.CenterStrength == 0 {
		c.CenterStrength = d.CenterStrength
	}
	if c.CollideStrength == 0 {
		c.CollideStrength = d.CollideStrength
	}
	if c.ClusterStrength == 0 {
		c.ClusterStrength = d.ClusterStrength
	}
	if c.AlphaDecay == 0 {
		c.AlphaDecay = d.AlphaDecay
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = d.AlphaMin
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = d.VelocityDecay
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
}

// SimNode is the mutable layout projection of a GraphNode. Position and
// velocity are written only by the simulation tick; the interaction layer
// touches the pin fields through Pin/Unpin.
type SimNode struct {
	node   models.GraphNode
	pos    vector.Vector
	vel    vector.Vector
	fx, fy *float64
	radius float64
}

// ID returns the underlying node id.
func (n *SimNode) ID() string { return n.node.ID }

// Node returns the underlying immutable node.
func (n *SimNode) Node() models.GraphNode { return n.node }

// Position returns the node's current layout coordinates.
func (n *SimNode) Position() (x, y float64) { return n.pos[0], n.pos[1] }

// Radius returns the collision radius without padding.
func (n *SimNode) Radius() float64 { return n.radius }

// Pinned reports whether either axis is pinned.
func (n *SimNode) Pinned() bool { return n.fx != nil || n.fy != nil }

type link struct {
	source *SimNode
	target *SimNode
	weight float64
}

// Simulation advances SimNode positions under five forces: link, charge,
// centering, collision and type clustering. It is owned by a single
// session loop; no internal locking.
type Simulation struct {
	cfg      Config
	registry *models.TypeRegistry
	logger   *zap.Logger

	nodes   map[string]*SimNode
	order   []string
	links   []link
	anchors map[string]Anchor

	alpha       float64
	alphaTarget float64

	rng     *xorshift
	noise   opensimplex.Noise
	created int
}

// NewSimulation creates an empty simulation. Registry may be nil, in
// which case the default styling drives collision radii.
func NewSimulation(cfg Config, registry *models.TypeRegistry, logger *zap.Logger) *Simulation {
	cfg.applyDefaults()
	if registry == nil {
		registry = models.DefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulation{
		cfg:      cfg,
		registry: registry,
		logger:   logger,
		nodes:    make(map[string]*SimNode),
		anchors:  make(map[string]Anchor),
		alpha:    1,
		rng:      newXorshift(cfg.Seed),
		noise:    opensimplex.New(cfg.Seed),
	}
}

// SetGraph installs the visible subset. Surviving nodes keep their
// position, velocity and pin; departed nodes are destroyed along with
// their state; new nodes are seeded deterministically. Edges referencing
// unknown nodes are dropped. Type anchors are recomputed from the given
// type ordering.
func (s *Simulation) SetGraph(nodes []models.GraphNode, edges []models.GraphEdge, typeOrder []string) {
	next := make(map[string]*SimNode, len(nodes))
	order := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if existing, ok := s.nodes[n.ID]; ok {
			existing.node = n
			existing.radius = s.registry.NodeRadius(n)
			next[n.ID] = existing
		} else {
			next[n.ID] = s.seedNode(n)
		}
		order = append(order, n.ID)
	}
	s.nodes = next
	s.order = order

	s.links = s.links[:0]
	for _, e := range edges {
		src, ok1 := s.nodes[e.Source]
		tgt, ok2 := s.nodes[e.Target]
		if !ok1 || !ok2 {
			s.logger.Debug("dropping edge with missing endpoint",
				zap.String("source", e.Source), zap.String("target", e.Target))
			continue
		}
		if src == tgt {
			continue
		}
		s.links = append(s.links, link{source: src, target: tgt, weight: e.Weight})
	}

	s.anchors = TypeAnchors(typeOrder, s.cfg.Width, s.cfg.Height)
}

// seedNode places a new node on a phyllotaxis spiral around the canvas
// center, perturbed by seed-stable simplex noise so reruns with the same
// seed land identically.
func (s *Simulation) seedNode(n models.GraphNode) *SimNode {
	const initialRadius = 10.0
	initialAngle := math.Pi * (3 - math.Sqrt(5))

	i := float64(s.created)
	s.created++
	radius := initialRadius * math.Sqrt(0.5+i)
	angle := i * initialAngle
	x := s.cfg.Width/2 + radius*math.Cos(angle)
	y := s.cfg.Height/2 + radius*math.Sin(angle)
	if s.cfg.SeedJitter > 0 {
		x += s.noise.Eval2(i*0.13, 0) * s.cfg.SeedJitter
		y += s.noise.Eval2(0, i*0.13) * s.cfg.SeedJitter
	}

	return &SimNode{
		node:   n,
		pos:    vector.Vector{x, y},
		vel:    vector.Vector{0, 0},
		radius: s.registry.NodeRadius(n),
	}
}

// Alpha returns the current heat.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Converged reports whether the layout has settled: alpha has decayed
// below the minimum and nothing is asking for heat.
func (s *Simulation) Converged() bool {
	return s.alphaTarget == 0 && s.alpha < s.cfg.AlphaMin
}

// Reheat raises the alpha target so the simulation reacts to an
// interaction, e.g. a drag. Passing zero restores natural decay.
func (s *Simulation) Reheat(target float64) {
	s.alphaTarget = target
	if target > s.alpha {
		s.alpha = target
	}
}

// Pin clamps a node's position to (x, y) from the next tick on. Unknown
// ids are ignored.
func (s *Simulation) Pin(id string, x, y float64) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	px, py := x, y
	n.fx, n.fy = &px, &py
}

// Unpin releases a node back to free dynamics.
func (s *Simulation) Unpin(id string) {
	if n, ok := s.nodes[id]; ok {
		n.fx, n.fy = nil, nil
	}
}

// Lookup returns the simulation node for an id, or nil.
func (s *Simulation) Lookup(id string) *SimNode {
	return s.nodes[id]
}

// Each visits the simulation nodes in stable order.
func (s *Simulation) Each(fn func(*SimNode)) {
	for _, id := range s.order {
		fn(s.nodes[id])
	}
}

// Len returns the number of live simulation nodes.
func (s *Simulation) Len() int { return len(s.order) }

// Anchors returns the current type anchor mapping.
func (s *Simulation) Anchors() map[string]Anchor { return s.anchors }

// Tick advances the simulation one step: decay alpha, accumulate the
// five forces into velocities, then integrate. Pinned axes are clamped
// to their pin and their velocity is discarded. Returns the new alpha.
func (s *Simulation) Tick() float64 {
	if len(s.order) == 0 {
		s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay
		return s.alpha
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	s.applyLinkForce()
	s.applyChargeForce()
	s.applyClusterForce()
	s.applyCenterForce()
	s.applyCollideForce()

	for _, id := range s.order {
		n := s.nodes[id]
		n.vel = n.vel.Scale(1 - s.cfg.VelocityDecay)

		if n.fx != nil {
			n.pos[0] = *n.fx
			n.vel[0] = 0
		} else {
			n.pos[0] += n.vel[0]
		}
		if n.fy != nil {
			n.pos[1] = *n.fy
			n.vel[1] = 0
		} else {
			n.pos[1] += n.vel[1]
		}

		// A tick must never publish non-finite coordinates.
		if math.IsNaN(n.pos[0]) || math.IsInf(n.pos[0], 0) {
			n.pos[0] = s.cfg.Width / 2
			n.vel[0] = 0
		}
		if math.IsNaN(n.pos[1]) || math.IsInf(n.pos[1], 0) {
			n.pos[1] = s.cfg.Height / 2
			n.vel[1] = 0
		}
	}
	return s.alpha
}

// xorshift is a small deterministic generator used for degenerate
// geometry jiggle. Adapted to instance state so simulations with the
// same seed replay identically.
type xorshift struct {
	state uint32
}

func newXorshift(seed int64) *xorshift {
	state := uint32(seed)
	if state == 0 {
		state = 1234567890
	}
	return &xorshift{state: state}
}

func (x *xorshift) float() float64 {
	x.state ^= x.state << 13
	x.state ^= x.state >> 17
	x.state ^= x.state << 5
	return float64(x.state) / float64(math.MaxUint32)
}

// jiggle returns a tiny deterministic offset used to separate coincident
// node pairs before force math.
func (x *xorshift) jiggle() float64 {
	return (x.float() - 0.5) * 1e-6
}
