package physics

// Runner is the restartable tick task wrapped around a Simulation. The
// host's frame scheduler calls Step once per frame; the runner decides
// whether a tick is due and halts itself on convergence. Stop halts
// future ticks outright, Reheat restarts a halted runner. Cooperative
// and single-threaded, so tests can single-step deterministically.
type Runner struct {
	sim     *Simulation
	onFrame func(alpha float64)
	running bool
	stopped bool
}

// NewRunner wraps a simulation. onFrame, if non-nil, is called after
// every committed tick, once per tick, before the next tick can start.
func NewRunner(sim *Simulation, onFrame func(alpha float64)) *Runner {
	return &Runner{sim: sim, onFrame: onFrame}
}

// Start arms the runner. Idempotent; a stopped runner can be started
// again.
func (r *Runner) Start() {
	r.running = true
	r.stopped = false
}

// Stop halts all future ticks until the next Start. Used on session
// teardown and when the underlying graph data is replaced.
func (r *Runner) Stop() {
	r.running = false
	r.stopped = true
}

// Running reports whether the runner will tick on the next Step.
func (r *Runner) Running() bool { return r.running }

// Reheat raises the simulation's alpha target and resumes ticking if the
// runner had settled. A stopped runner stays stopped.
func (r *Runner) Reheat(target float64) {
	r.sim.Reheat(target)
	if !r.stopped {
		r.running = true
	}
}

// Settle restores natural alpha decay after an interaction ends.
func (r *Runner) Settle() {
	r.sim.Reheat(0)
}

// Step performs one tick if the runner is armed and the simulation has
// not converged. Returns true if a tick was committed.
func (r *Runner) Step() bool {
	if !r.running {
		return false
	}
	if r.sim.Converged() {
		r.running = false
		return false
	}
	alpha := r.sim.Tick()
	if r.onFrame != nil {
		r.onFrame(alpha)
	}
	return true
}

// RunToConvergence steps until the simulation converges or maxTicks is
// reached, whichever comes first. Returns the number of ticks taken.
func (r *Runner) RunToConvergence(maxTicks int) int {
	r.Start()
	ticks := 0
	for ticks < maxTicks && r.Step() {
		ticks++
	}
	return ticks
}
