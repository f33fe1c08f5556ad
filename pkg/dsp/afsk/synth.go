package afsk

import "fmt"

// Tone selects which modulating waveform is being emitted.
type Tone int

const (
	Space Tone = iota
	Mark
)

func (t Tone) String() string {
	if t == Mark {
		return "mark"
	}
	return "space"
}

// State is the mutable synthesis state threaded through Fill calls. It is
// owned by a single streaming goroutine; Fill is not reentrant.
type State struct {
	carrierPhase int
	markPhase    int
	spacePhase   int
	active       Tone

	samplesSinceSwitch int
	switchAfter        int
}

// NewState returns a State starting on the space tone with all phases at
// zero. switchAfter is the number of sample pairs between tone flips; zero
// or negative holds the active tone forever.
func NewState(switchAfter int) *State {
	return &State{
		active:      Space,
		switchAfter: switchAfter,
	}
}

// Reset zeroes all phases and the switch counter and makes active the
// emitting tone.
func (s *State) Reset(active Tone) {
	s.carrierPhase = 0
	s.markPhase = 0
	s.spacePhase = 0
	s.samplesSinceSwitch = 0
	s.active = active
}

// Active returns the tone currently being emitted.
func (s *State) Active() Tone { return s.active }

// Phases returns the current carrier, mark and space phase offsets.
func (s *State) Phases() (carrier, mark, space int) {
	return s.carrierPhase, s.markPhase, s.spacePhase
}

// SamplesSinceSwitch returns the sample pairs emitted since the last tone
// flip.
func (s *State) SamplesSinceSwitch() int { return s.samplesSinceSwitch }

// Fill writes exactly n interleaved (I, Q) int8 sample pairs into buf,
// advancing st. After the batch it re-synchronizes the inactive tone's
// phase proportionally, so a later switch continues without a
// discontinuity, and flips the active tone once the switch interval has
// elapsed. Overshoot past the interval is carried into the next one so the
// cadence does not drift.
//
// Fill performs no allocation, locking, or blocking. It panics if buf
// cannot hold 2*n bytes; that is an integration error, not a runtime
// condition.
func (t *Tables) Fill(st *State, buf []byte, n int) {
	if len(buf) < 2*n {
		panic(fmt.Errorf("afsk: buffer of %d bytes cannot hold %d sample pairs", len(buf), n))
	}

	if st.active == Mark {
		for i := 0; i < 2*n; i += 2 {
			buf[i] = byte(t.markI[st.markPhase][st.carrierPhase])
			buf[i+1] = byte(t.markQ[st.markPhase][st.carrierPhase])
			st.carrierPhase++
			if st.carrierPhase == t.carrierLen {
				st.carrierPhase = 0
			}
			st.markPhase++
			if st.markPhase == t.markLen {
				st.markPhase = 0
			}
		}
		st.spacePhase = t.spaceLen * st.markPhase / t.markLen
	} else {
		for i := 0; i < 2*n; i += 2 {
			buf[i] = byte(t.spaceI[st.spacePhase][st.carrierPhase])
			buf[i+1] = byte(t.spaceQ[st.spacePhase][st.carrierPhase])
			st.carrierPhase++
			if st.carrierPhase == t.carrierLen {
				st.carrierPhase = 0
			}
			st.spacePhase++
			if st.spacePhase == t.spaceLen {
				st.spacePhase = 0
			}
		}
		st.markPhase = t.markLen * st.spacePhase / t.spaceLen
	}

	st.samplesSinceSwitch += n
	if st.switchAfter > 0 && st.samplesSinceSwitch >= st.switchAfter {
		if st.active == Mark {
			st.active = Space
		} else {
			st.active = Mark
		}
		st.samplesSinceSwitch -= st.switchAfter
	}
}
