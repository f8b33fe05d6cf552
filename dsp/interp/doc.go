// Package interp holds the fractional-sample interpolators used by the pitch
// engines.
//
// [Hermite4] reads between delay-line samples in the tap shifter, where the
// read position moves continuously. [Linear2] blends neighbouring spectral
// bins when the phase vocoder moves energy to a new bin.
package interp
