// Package sim advances accumulate-release scenarios through time.
//
// The core is a fixed-step explicit Euler integrator with threshold-crossing
// event detection:
//
//   - [Simulator]: validates a scenario once, then runs it deterministically
//   - [Trajectory]: the per-step sample table (time, accumulator,
//     order_parameter, driver, release)
//   - [Event]: one record per threshold crossing and reset
//   - [RunEnsemble]: parallel perturbed copies of one base scenario
//
// # Determinism
//
// A run is a pure function of (scenario, seed): the noise stream comes from a
// private rand.Rand seeded once at the start, never from global state. An
// ensemble draws all member perturbations and sub-seeds from one top-level
// generator before any member executes, so results do not depend on goroutine
// scheduling.
package sim
