// Package pitch provides streaming pitch shifters behind a common
// chunked interface.
//
// Included processors:
//   - Stretcher: Shared Process/Retrieve contract for interchangeable shifters.
//   - Identity: Pass-through with optional fixed latency, for tests and bypass.
//   - TapShifter: Time-domain dual-tap rotating delay shifter.
//   - SpectralShifter: Frequency-domain phase-vocoder bin shifter.
//
// Every processor is mono, allocation-free after construction, and not
// thread-safe.
package pitch
