package afsk

import (
	"math"
	"testing"
)

func TestNewTablesInvalidConfig(t *testing.T) {
	tests := []struct {
		name       string
		carrierLen int
		markLen    int
		spaceLen   int
		amplitude  float64
	}{
		{"zero carrier", 0, 6666, 3636, 127},
		{"zero mark", 10, 0, 3636, 127},
		{"zero space", 10, 6666, 0, 127},
		{"negative carrier", -10, 6666, 3636, 127},
		{"zero amplitude", 10, 6666, 3636, 0},
		{"negative amplitude", 10, 6666, 3636, -127},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTables(tt.carrierLen, tt.markLen, tt.spaceLen, DefaultModulationDepth, tt.amplitude); err == nil {
				t.Errorf("NewTables(%d, %d, %d, _, %f) expected error",
					tt.carrierLen, tt.markLen, tt.spaceLen, tt.amplitude)
			}
		})
	}
}

func TestCycleLength(t *testing.T) {
	tests := []struct {
		sampleRate int
		freq       int
		want       int
	}{
		{8000000, 800000, 10},
		{8000000, 1200, 6666},
		{8000000, 2200, 3636},
		{48000, 1200, 40},
		{48000, 2200, 21},
	}
	for _, tt := range tests {
		if got := CycleLength(tt.sampleRate, tt.freq); got != tt.want {
			t.Errorf("CycleLength(%d, %d) = %d, want %d", tt.sampleRate, tt.freq, got, tt.want)
		}
	}
}

// The reference configuration: 8 Msps, +800kHz carrier, 1200/2200 Hz tones.
func referenceTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := NewTables(10, 6666, 3636, DefaultModulationDepth, DefaultAmplitude)
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	return tables
}

func TestTablesMatchFormula(t *testing.T) {
	tables := referenceTables(t)

	check := func(name string, iTab, qTab [][]int8, toneLen int) {
		for s := 0; s < toneLen; s++ {
			sa := float64(s) * tau / float64(toneLen)
			for c := 0; c < 10; c++ {
				ca := float64(c) * tau / 10.0
				wantI := int8(math.Round(127 * math.Sin(ca-DefaultModulationDepth*math.Cos(sa))))
				wantQ := int8(math.Round(127 * math.Cos(ca-DefaultModulationDepth*math.Cos(sa))))
				if iTab[s][c] != wantI || qTab[s][c] != wantQ {
					t.Fatalf("%s[%d][%d] = (%d, %d), want (%d, %d)",
						name, s, c, iTab[s][c], qTab[s][c], wantI, wantQ)
				}
			}
		}
	}

	check("mark", tables.markI, tables.markQ, 6666)
	check("space", tables.spaceI, tables.spaceQ, 3636)
}

func TestTablesAmplitudeBound(t *testing.T) {
	tables := referenceTables(t)

	for _, tab := range [][][]int8{tables.markI, tables.markQ, tables.spaceI, tables.spaceQ} {
		for s := range tab {
			for c := range tab[s] {
				if v := tab[s][c]; v > 127 || v < -127 {
					t.Fatalf("sample [%d][%d] = %d exceeds amplitude bound", s, c, v)
				}
			}
		}
	}
}

// The tables encode a constant-envelope signal: every (I, Q) pair sits on
// the amplitude circle up to quantization.
func TestTablesConstantEnvelope(t *testing.T) {
	tables := referenceTables(t)

	const want = 127.0 * 127.0
	// Each of I and Q is off by at most half an LSB, which perturbs the
	// squared radius by about the amplitude itself.
	const tolerance = 3 * 127.0

	check := func(name string, iTab, qTab [][]int8) {
		for s := range iTab {
			for c := range iTab[s] {
				i, q := float64(iTab[s][c]), float64(qTab[s][c])
				if r2 := i*i + q*q; math.Abs(r2-want) > tolerance {
					t.Fatalf("%s[%d][%d]: envelope %f, want %f +/- %f", name, s, c, r2, want, tolerance)
				}
			}
		}
	}

	check("mark", tables.markI, tables.markQ)
	check("space", tables.spaceI, tables.spaceQ)
}
