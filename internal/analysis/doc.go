// Package analysis inspects recorded runs and particle populations.
//
//   - [PowerSpectrum] and [DominantFrequency]: FFT of a sample series,
//     e.g. the kinetic energy of a run, to find oscillation in the
//     collapse toward the centre
//   - [Divergence]: separation growth between two worlds that start one
//     perturbation apart
//   - [SpeedHistogram]: speed distribution of a frame
//
// # Oscillation
//
//	ke := result.Kinetic()
//	f := analysis.DominantFrequency(ke, dt*float64(recordEvery))
package analysis
