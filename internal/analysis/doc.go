// Package analysis derives summary statistics from finished runs.
//
//   - [SummarizeCycles]: per-cycle duration, amplitude, slope and gain from
//     the recorded release events
//   - [ViabilityMargin]: remaining headroom between the final accumulator
//     value and the most demanding threshold
//
// Degenerate quantities (zero-width cycles, a zero top threshold) are
// reported as NaN rather than raising.
package analysis
