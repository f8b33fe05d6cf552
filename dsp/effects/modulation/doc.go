// Package modulation provides low-frequency modulation sources.
//
// Included processors:
//   - LFO: Phase-accumulating oscillator (sine or triangle) evaluated at a
//     reduced update rate.
package modulation
