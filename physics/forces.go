package physics

import (
	"math"

	"github.com/quartercastle/vector"
)

// applyLinkForce pulls each visible edge's endpoints toward the target
// separation, spring-style. Heavier edges pull harder, as in the
// rendered stroke weight.
func (s *Simulation) applyLinkForce() {
	for _, l := range s.links {
		delta := l.target.pos.Sub(l.source.pos)
		dist := math.Sqrt(delta[0]*delta[0] + delta[1]*delta[1])
		if dist < minDistance {
			delta = s.jiggled(delta)
			dist = minDistance
		}

		d0 := s.cfg.LinkDistance
		if d0 <= 0 {
			d0 = l.source.radius + l.target.radius + 2*s.cfg.CollidePadding + 10
		}

		k := s.cfg.LinkStrength * (dist - d0) / dist * s.alpha * (1 + l.weight)
		f := delta.Scale(k * 0.5)
		l.source.vel = l.source.vel.Add(f)
		l.target.vel = l.target.vel.Sub(f)
	}
}

// applyChargeForce repels every node pair with a magnitude falling off
// with squared distance, floored so coincident pairs never divide by
// zero.
func (s *Simulation) applyChargeForce() {
	for i, idA := range s.order {
		a := s.nodes[idA]
		for _, idB := range s.order[i+1:] {
			b := s.nodes[idB]
			delta := a.pos.Sub(b.pos)
			l2 := delta[0]*delta[0] + delta[1]*delta[1]
			if l2 < minDistance*minDistance {
				delta = s.jiggled(delta)
				l2 = minDistance * minDistance
			}

			push := delta.Scale(-s.cfg.ChargeStrength * s.alpha / l2)
			a.vel = a.vel.Add(push)
			b.vel = b.vel.Sub(push)
		}
	}
}

// applyClusterForce weakly pulls each node toward its type anchor. An
// order of magnitude weaker than link/collision by default, enough to
// bias same-type nodes together without fighting the topology.
func (s *Simulation) applyClusterForce() {
	for _, id := range s.order {
		n := s.nodes[id]
		anchor, ok := s.anchors[n.node.Type]
		if !ok {
			continue
		}
		n.vel[0] += (anchor.X - n.pos[0]) * s.cfg.ClusterStrength * s.alpha
		n.vel[1] += (anchor.Y - n.pos[1]) * s.cfg.ClusterStrength * s.alpha
	}
}

// applyCenterForce nudges the whole set's centroid toward the canvas
// center so the layout never drifts off-canvas. Applied to positions,
// independent of alpha, so the drift correction survives cooling.
func (s *Simulation) applyCenterForce() {
	var cx, cy float64
	for _, id := range s.order {
		n := s.nodes[id]
		cx += n.pos[0]
		cy += n.pos[1]
	}
	count := float64(len(s.order))
	sx := (s.cfg.Width/2 - cx/count) * s.cfg.CenterStrength
	sy := (s.cfg.Height/2 - cy/count) * s.cfg.CenterStrength
	for _, id := range s.order {
		n := s.nodes[id]
		n.pos[0] += sx
		n.pos[1] += sy
	}
}

// applyCollideForce pushes overlapping pairs apart until their padded
// radii no longer intersect. Position-based so residual overlap keeps
// shrinking even as alpha cools.
func (s *Simulation) applyCollideForce() {
	for i, idA := range s.order {
		a := s.nodes[idA]
		for _, idB := range s.order[i+1:] {
			b := s.nodes[idB]
			minSep := a.radius + b.radius + 2*s.cfg.CollidePadding
			delta := a.pos.Sub(b.pos)
			dist := math.Sqrt(delta[0]*delta[0] + delta[1]*delta[1])
			if dist < minDistance {
				delta = s.jiggled(delta)
				dist = minDistance
			}
			overlap := minSep - dist
			if overlap <= 0 {
				continue
			}

			correction := delta.Scale(overlap / dist * s.cfg.CollideStrength * 0.5)
			a.pos = a.pos.Add(correction)
			b.pos = b.pos.Sub(correction)
		}
	}
}

// jiggled replaces a (near-)zero delta with a tiny deterministic offset.
func (s *Simulation) jiggled(delta vector.Vector) vector.Vector {
	return vector.Vector{delta[0] + s.rng.jiggle(), delta[1] + s.rng.jiggle()}
}
