// Package afsk generates a continuous-phase two-tone phase-modulated
// carrier from precomputed I/Q lookup tables.
//
// Trig is evaluated once at startup over the full cross product of tone
// phase and carrier phase, so the streaming path is two table reads per
// sample pair and is safe to run inside a transmit callback.
package afsk

import (
	"fmt"
	"math"
)

const tau = 2 * math.Pi

const (
	// DefaultModulationDepth is the classic sinusoidal-FM depth for AFSK.
	DefaultModulationDepth = 4.0 / 3.0
	// DefaultAmplitude is the full signed 8-bit sample magnitude.
	DefaultAmplitude = 127.0
)

// Tables holds the four quantized waveform tables, indexed
// [tonePhase][carrierPhase]. Immutable after construction and safe for any
// number of concurrent readers.
type Tables struct {
	markI  [][]int8
	markQ  [][]int8
	spaceI [][]int8
	spaceQ [][]int8

	carrierLen int
	markLen    int
	spaceLen   int
}

// CycleLength returns the whole number of samples in one cycle of freq at
// sampleRate. Truncating to an integer introduces a small fixed frequency
// error in exchange for a finite table.
func CycleLength(sampleRate, freq int) int {
	return sampleRate / freq
}

// NewTables precomputes the mark and space I/Q tables. carrierLen is the
// number of samples per carrier cycle, markLen and spaceLen the samples per
// modulating cycle of each tone. Each entry is
//
//	I(s,c) = round(A * sin(c*tau/C - D*cos(s*tau/L)))
//	Q(s,c) = round(A * cos(c*tau/C - D*cos(s*tau/L)))
//
// for modulation depth D and amplitude A.
func NewTables(carrierLen, markLen, spaceLen int, modDepth, amplitude float64) (*Tables, error) {
	if carrierLen <= 0 || markLen <= 0 || spaceLen <= 0 {
		return nil, fmt.Errorf("cycle lengths must be positive: carrier %d mark %d space %d",
			carrierLen, markLen, spaceLen)
	}
	if amplitude <= 0 {
		return nil, fmt.Errorf("amplitude must be positive: %f", amplitude)
	}

	t := &Tables{
		carrierLen: carrierLen,
		markLen:    markLen,
		spaceLen:   spaceLen,
	}
	t.markI, t.markQ = buildTone(markLen, carrierLen, modDepth, amplitude)
	t.spaceI, t.spaceQ = buildTone(spaceLen, carrierLen, modDepth, amplitude)

	return t, nil
}

func buildTone(toneLen, carrierLen int, modDepth, amplitude float64) (iTab, qTab [][]int8) {
	iTab = make([][]int8, toneLen)
	qTab = make([][]int8, toneLen)

	for s := 0; s < toneLen; s++ {
		iRow := make([]int8, carrierLen)
		qRow := make([]int8, carrierLen)
		sa := float64(s) * tau / float64(toneLen)

		for c := 0; c < carrierLen; c++ {
			ca := float64(c) * tau / float64(carrierLen)
			sin, cos := math.Sincos(ca - modDepth*math.Cos(sa))
			iRow[c] = int8(math.Round(amplitude * sin))
			qRow[c] = int8(math.Round(amplitude * cos))
		}

		iTab[s] = iRow
		qTab[s] = qRow
	}

	return iTab, qTab
}

// CarrierLength returns the samples per carrier cycle.
func (t *Tables) CarrierLength() int { return t.carrierLen }

// ToneLength returns the samples per modulating cycle of tone.
func (t *Tables) ToneLength(tone Tone) int {
	if tone == Mark {
		return t.markLen
	}
	return t.spaceLen
}
