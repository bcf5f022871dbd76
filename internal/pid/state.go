package pid

import "fmt"

// State is the one-letter processing/compression code carried in a product
// identifier.
type State string

const (
	// StateUncompressed marks data downlinked without onboard compression.
	StateUncompressed State = "z"
	// StateLossless marks 1:1 integer lossless compression.
	StateLossless State = "a"
	// StateSLoG marks the SLoG tone-mapping transform, lossless in the
	// compression sense but derived from the integer data.
	StateSLoG State = "s"
	// StateLossy5, StateLossy16, and StateLossy64 mark onboard lossy
	// compression at the named ratio.
	StateLossy5  State = "b"
	StateLossy16 State = "c"
	StateLossy64 State = "d"
)

// Class groups states by data fidelity.
type Class int

const (
	ClassUncompressed Class = iota
	ClassLossless
	ClassLossy
)

func (c Class) String() string {
	switch c {
	case ClassUncompressed:
		return "Uncompressed"
	case ClassLossless:
		return "Lossless"
	case ClassLossy:
		return "Lossy"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Ordering is the result of comparing two states by quality.
type Ordering int

const (
	Worse Ordering = iota - 1
	Equal
	Better
)

func (o Ordering) String() string {
	switch o {
	case Better:
		return "better"
	case Worse:
		return "worse"
	default:
		return "equal"
	}
}

// RankTableVersion identifies the state quality ranking revision.
const RankTableVersion = 1

// stateRank orders states by fidelity class first and by the quality
// parameter on class ties. Lower values are better in both positions. The
// quality parameter is the onboard compression ratio; SLoG carries a
// synthetic value ranking it just below integer lossless.
type stateRank struct {
	class   Class
	quality int
}

var stateRanks = map[State]stateRank{
	StateUncompressed: {ClassUncompressed, 0},
	StateLossless:     {ClassLossless, 1},
	StateSLoG:         {ClassLossless, 2},
	StateLossy5:       {ClassLossy, 5},
	StateLossy16:      {ClassLossy, 16},
	StateLossy64:      {ClassLossy, 64},
}

// ParseState maps a state code to its State value.
func ParseState(s string) (State, error) {
	state := State(s)
	if _, ok := stateRanks[state]; !ok {
		return "", invalidField("processing state", s, "not a recognized state code")
	}
	return state, nil
}

func (s State) String() string { return string(s) }

// Valid reports whether the state is in the rank table.
func (s State) Valid() bool {
	_, ok := stateRanks[s]
	return ok
}

// Class returns the fidelity class of the state. It panics on a state
// missing from the rank table: the table is total over every decodable
// state, so a miss is a programming error rather than a data error.
func (s State) Class() Class {
	return s.rank().class
}

// Quality returns the quality parameter of the state. Lower is stricter.
func (s State) Quality() int {
	return s.rank().quality
}

func (s State) rank() stateRank {
	rank, ok := stateRanks[s]
	if !ok {
		panic(fmt.Sprintf("pid: state %q is decodable but unranked (rank table v%d)", string(s), RankTableVersion))
	}
	return rank
}

// Compare orders a against b by data quality. It returns Better when a is
// the higher-fidelity state, Worse when b is, and Equal only when the two
// states are identical. The quality parameter breaks class ties, so every
// pair of distinct states orders strictly.
func Compare(a, b State) Ordering {
	ra, rb := a.rank(), b.rank()
	switch {
	case ra.class != rb.class:
		if ra.class < rb.class {
			return Better
		}
		return Worse
	case ra.quality != rb.quality:
		if ra.quality < rb.quality {
			return Better
		}
		return Worse
	default:
		return Equal
	}
}

// States returns every ranked state code.
func States() []State {
	out := make([]State, 0, len(stateRanks))
	for s := range stateRanks {
		out = append(out, s)
	}
	return out
}
