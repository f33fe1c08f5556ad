package fir

import "math"

// BlackmanWindow returns an ntaps-point Blackman window, used to taper FFT
// input before plotting.
func BlackmanWindow(ntaps int) []float32 {
	ret := make([]float32, ntaps)
	M := float64(ntaps - 1)

	for i := 0; i < ntaps; i++ {
		fi := float64(i)
		ret[i] = float32(0.42 - 0.5*math.Cos((2*math.Pi*fi)/M) +
			0.08*math.Cos((4*math.Pi*fi)/M))
	}
	return ret
}
