package pid

import (
	"fmt"
	"regexp"
	"strings"
)

// Scheme selects one token format revision. Which scheme encodes and which
// schemes decode is explicit Codec configuration, never ambient state.
type Scheme int

const (
	// SchemeV1 is the legacy format: YYMMDD-hhmmss[fff]-inst-state[-sub].
	// It carries no capture sequence segment.
	SchemeV1 Scheme = 1
	// SchemeV2 is the current format: YYMMDD-hhmmss[fff]-NNN-inst-state[-sub]
	// with a fixed three-digit capture sequence.
	SchemeV2 Scheme = 2
)

func (s Scheme) String() string {
	switch s {
	case SchemeV1:
		return "v1"
	case SchemeV2:
		return "v2"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// ParseScheme maps a configuration value like "v2" to its Scheme.
func ParseScheme(value string) (Scheme, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "v1", "1":
		return SchemeV1, nil
	case "v2", "2":
		return SchemeV2, nil
	default:
		return 0, fmt.Errorf("unknown identifier scheme %q (known: v1, v2)", value)
	}
}

const (
	datePattern  = `(\d\d)(1[0-2]|0[1-9])(3[01]|[12]\d|0[1-9])`
	timePattern  = `([01]\d|2[0-3])[0-5]\d[0-5]\d(?:\d{3})?`
	seqPattern   = `\d{3}`
	instPattern  = `[a-z]{3}`
	statePattern = `[abcdsz]`
	subPattern   = `pan`
)

type schemeSpec struct {
	re          *regexp.Regexp
	hasSequence bool
}

var schemeSpecs = map[Scheme]schemeSpec{
	SchemeV1: {
		re: regexp.MustCompile(
			`^(?P<date>` + datePattern + `)-(?P<time>` + timePattern + `)-` +
				`(?P<inst>` + instPattern + `)-(?P<state>` + statePattern + `)` +
				`(?:-(?P<sub>` + subPattern + `))?$`,
		),
	},
	SchemeV2: {
		re: regexp.MustCompile(
			`^(?P<date>` + datePattern + `)-(?P<time>` + timePattern + `)-` +
				`(?P<seq>` + seqPattern + `)-` +
				`(?P<inst>` + instPattern + `)-(?P<state>` + statePattern + `)` +
				`(?:-(?P<sub>` + subPattern + `))?$`,
		),
		hasSequence: true,
	},
}

// subProducts is the closed discriminator set, shared by both schemes.
var subProducts = map[string]bool{
	"pan": true,
}

func (s schemeSpec) match(token string) (map[string]string, bool) {
	m := s.re.FindStringSubmatch(token)
	if m == nil {
		return nil, false
	}
	groups := make(map[string]string, 6)
	for i, name := range s.re.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}
	return groups, true
}
