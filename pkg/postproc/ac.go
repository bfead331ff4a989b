package postproc

import (
	"math"
	"math/cmplx"
)

// MagnitudeDB converts a complex AC sample to decibels. |v| == 1 gives 0 dB.
func MagnitudeDB(v complex128) float64 {
	return 20 * math.Log10(cmplx.Abs(v))
}

// PhaseDeg converts a complex AC sample to its phase in degrees, normalized
// to (-180, 180].
func PhaseDeg(v complex128) float64 {
	deg := cmplx.Phase(v) * 180.0 / math.Pi
	if deg <= -180 {
		deg += 360
	}
	return deg
}

// MagnitudesDB maps MagnitudeDB over a vector.
func MagnitudesDB(vs []complex128) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = MagnitudeDB(v)
	}
	return out
}

// PhasesDeg maps PhaseDeg over a vector.
func PhasesDeg(vs []complex128) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = PhaseDeg(v)
	}
	return out
}
