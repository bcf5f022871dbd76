package pid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProductID is the decoded form of a product identifier token. Instrument
// always holds the canonical code; Time is UTC with at most millisecond
// precision.
type ProductID struct {
	Time       time.Time
	Sequence   int
	Instrument string
	State      State
	SubProduct string
}

// Equal reports field-for-field equality.
func (id ProductID) Equal(other ProductID) bool {
	return id.Time.Equal(other.Time) &&
		id.Sequence == other.Sequence &&
		id.Instrument == other.Instrument &&
		id.State == other.State &&
		id.SubProduct == other.SubProduct
}

// CompressionClass returns the fidelity class of the identifier's
// processing state.
func (id ProductID) CompressionClass() Class {
	return id.State.Class()
}

func (id ProductID) describe() string {
	desc := fmt.Sprintf("%s %s seq %d", id.Instrument, id.Time.Format("2006-01-02T15:04:05.000Z"), id.Sequence)
	if id.SubProduct != "" {
		desc += " " + id.SubProduct
	}
	return desc
}

// Codec encodes and decodes product identifiers under an explicit scheme
// configuration: one scheme for encoding, an ordered list for decoding.
type Codec struct {
	encode Scheme
	decode []Scheme
}

// NewCodec builds a codec that encodes with the given scheme and decodes
// the listed schemes in order. With no decode schemes given, the codec
// decodes only its encode scheme.
func NewCodec(encode Scheme, decode ...Scheme) (*Codec, error) {
	if _, ok := schemeSpecs[encode]; !ok {
		return nil, fmt.Errorf("unknown encode scheme %s", encode)
	}
	if len(decode) == 0 {
		decode = []Scheme{encode}
	}
	for _, s := range decode {
		if _, ok := schemeSpecs[s]; !ok {
			return nil, fmt.Errorf("unknown decode scheme %s", s)
		}
	}
	return &Codec{encode: encode, decode: append([]Scheme(nil), decode...)}, nil
}

// EncodeScheme returns the scheme new tokens are written in.
func (c *Codec) EncodeScheme() Scheme { return c.encode }

// DecodeSchemes returns the schemes accepted by Decode, in trial order.
func (c *Codec) DecodeSchemes() []Scheme {
	return append([]Scheme(nil), c.decode...)
}

// Encode renders the identifier as a token in the codec's encode scheme.
// Any field outside the scheme's domain is an InvalidFieldError.
func (c *Codec) Encode(id ProductID) (string, error) {
	spec := schemeSpecs[c.encode]

	code, err := ResolveInstrument(id.Instrument)
	if err != nil {
		return "", invalidField("instrument", id.Instrument, "resolves to no known alias")
	}

	t := id.Time
	if t.IsZero() {
		return "", invalidField("acquisition time", "0001-01-01T00:00:00Z", "zero time")
	}
	if _, offset := t.Zone(); offset != 0 {
		return "", invalidField("acquisition time", t.Format(time.RFC3339Nano), "must be UTC")
	}
	if year := t.Year(); year < 2000 || year > 2099 {
		return "", invalidField("acquisition time", t.Format(time.RFC3339Nano), "year must be between 2000 and 2099")
	}
	if t.Nanosecond()%int(time.Millisecond) != 0 {
		return "", invalidField(
			"acquisition time", t.Format(time.RFC3339Nano),
			"finer than millisecond resolution",
		)
	}

	segments := make([]string, 0, 6)
	segments = append(segments, t.Format("060102"))
	clock := t.Format("150405")
	if ms := t.Nanosecond() / int(time.Millisecond); ms > 0 {
		clock += fmt.Sprintf("%03d", ms)
	}
	segments = append(segments, clock)

	if spec.hasSequence {
		if id.Sequence < 0 || id.Sequence > 999 {
			return "", invalidField("capture sequence", strconv.Itoa(id.Sequence), "outside the three-digit segment width")
		}
		segments = append(segments, fmt.Sprintf("%03d", id.Sequence))
	} else if id.Sequence != 0 {
		return "", invalidField(
			"capture sequence", strconv.Itoa(id.Sequence),
			fmt.Sprintf("scheme %s carries no sequence segment", c.encode),
		)
	}

	segments = append(segments, code)

	if !id.State.Valid() {
		return "", invalidField("processing state", string(id.State), "not a recognized state code")
	}
	segments = append(segments, string(id.State))

	if id.SubProduct != "" {
		if !subProducts[id.SubProduct] {
			return "", invalidField("sub-product", id.SubProduct, "not in the scheme's discriminator set")
		}
		segments = append(segments, id.SubProduct)
	}

	return strings.Join(segments, "-"), nil
}

// Decode parses a token against the configured decode schemes in order.
// A token matching no scheme structurally is a MalformedIdentifierError; a
// structural match whose instrument segment resolves to no known alias is
// an UnknownInstrumentError.
func (c *Codec) Decode(token string) (ProductID, error) {
	for _, scheme := range c.decode {
		groups, ok := schemeSpecs[scheme].match(token)
		if !ok {
			continue
		}
		return fromGroups(token, groups)
	}
	names := make([]string, len(c.decode))
	for i, s := range c.decode {
		names[i] = s.String()
	}
	return ProductID{}, malformed(token, "matches no configured scheme ("+strings.Join(names, ", ")+")")
}

func fromGroups(token string, groups map[string]string) (ProductID, error) {
	clock := groups["time"]
	millis := 0
	if len(clock) == 9 {
		block := clock[6:]
		if block == "000" {
			return ProductID{}, malformed(token, "millisecond block 000 is non-canonical; omit it")
		}
		ms, err := strconv.Atoi(block)
		if err != nil {
			return ProductID{}, malformed(token, "unparsable millisecond block "+block)
		}
		millis = ms
		clock = clock[:6]
	}

	// Token years are the 2000-2099 range; the century is implied.
	t, err := time.ParseInLocation("20060102150405", "20"+groups["date"]+clock, time.UTC)
	if err != nil {
		return ProductID{}, malformed(token, "impossible calendar date "+groups["date"])
	}
	t = t.Add(time.Duration(millis) * time.Millisecond)

	code, err := ResolveInstrument(groups["inst"])
	if err != nil {
		var unknown *UnknownInstrumentError
		if errors.As(err, &unknown) {
			return ProductID{}, unknown
		}
		return ProductID{}, err
	}

	sequence := 0
	if seq, ok := groups["seq"]; ok && seq != "" {
		sequence, err = strconv.Atoi(seq)
		if err != nil {
			return ProductID{}, malformed(token, "unparsable sequence segment "+seq)
		}
	}

	return ProductID{
		Time:       t,
		Sequence:   sequence,
		Instrument: code,
		State:      State(groups["state"]),
		SubProduct: groups["sub"],
	}, nil
}

// Best selects the identifier with the highest-quality processing state.
// An exact state tie between distinct identifiers is an AmbiguousBestError:
// the scheme guarantees at most one representation per state for a given
// observation, so callers must pre-deduplicate by observation.
func Best(ids []ProductID) (ProductID, error) {
	if len(ids) == 0 {
		return ProductID{}, errors.New("no identifiers to choose from")
	}

	// Ties are checked across the whole input first so the answer does not
	// depend on the order identifiers were listed in.
	byState := make(map[State]ProductID, len(ids))
	for _, cand := range ids {
		if prev, ok := byState[cand.State]; ok && !prev.Equal(cand) {
			return ProductID{}, &AmbiguousBestError{A: prev, B: cand}
		}
		byState[cand.State] = cand
	}

	best := ids[0]
	for _, cand := range ids[1:] {
		if Compare(cand.State, best.State) == Better {
			best = cand
		}
	}
	return best, nil
}
