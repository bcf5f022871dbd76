package pid

import (
	"errors"
	"testing"
	"time"
)

func mustCodec(t *testing.T, encode Scheme, decode ...Scheme) *Codec {
	t.Helper()
	codec, err := NewCodec(encode, decode...)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func utc(year int, month time.Month, day, hour, min, sec, ms int) time.Time {
	return time.Date(year, month, day, hour, min, sec, ms*int(time.Millisecond), time.UTC)
}

func TestEncodeV2(t *testing.T) {
	codec := mustCodec(t, SchemeV2)

	cases := []struct {
		name string
		id   ProductID
		want string
	}{
		{
			name: "lossless navcam",
			id:   ProductID{Time: utc(2023, 11, 25, 14, 4, 16, 0), Sequence: 1, Instrument: "ncl", State: StateLossless},
			want: "231125-140416-001-ncl-a",
		},
		{
			name: "milliseconds present",
			id:   ProductID{Time: utc(2022, 1, 17, 1, 1, 1, 1), Sequence: 0, Instrument: "aim", State: StateUncompressed},
			want: "220117-010101001-000-aim-z",
		},
		{
			name: "alias resolves to canonical",
			id:   ProductID{Time: utc(2024, 3, 30, 12, 12, 12, 0), Sequence: 42, Instrument: "HazCam Aft Port", State: StateLossy64},
			want: "240330-121212-042-hap-d",
		},
		{
			name: "numeric hazcam alias",
			id:   ProductID{Time: utc(2024, 3, 30, 12, 12, 12, 0), Sequence: 7, Instrument: "hazcam_1", State: StateLossy5},
			want: "240330-121212-007-hfp-b",
		},
		{
			name: "panorama discriminator",
			id:   ProductID{Time: utc(2023, 12, 25, 18, 20, 0, 0), Sequence: 3, Instrument: "pan", State: StateSLoG, SubProduct: "pan"},
			want: "231225-182000-003-pan-s-pan",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := codec.Encode(tc.id)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Encode = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEncodeRejectsOutOfDomainFields(t *testing.T) {
	codec := mustCodec(t, SchemeV2)
	est := time.FixedZone("EST", -5*3600)
	base := ProductID{Time: utc(2023, 11, 25, 14, 4, 16, 0), Sequence: 1, Instrument: "ncl", State: StateLossless}

	cases := []struct {
		name   string
		mutate func(*ProductID)
	}{
		{"unknown instrument", func(id *ProductID) { id.Instrument = "spectrometer" }},
		{"zero time", func(id *ProductID) { id.Time = time.Time{} }},
		{"non-UTC time", func(id *ProductID) { id.Time = time.Date(2023, 11, 25, 9, 4, 16, 0, est) }},
		{"year before scheme epoch", func(id *ProductID) { id.Time = utc(1999, 12, 31, 23, 59, 59, 0) }},
		{"year after scheme epoch", func(id *ProductID) { id.Time = utc(2100, 1, 1, 0, 0, 0, 0) }},
		{"sub-millisecond precision", func(id *ProductID) {
			id.Time = time.Date(2023, 11, 25, 14, 4, 16, 1500*int(time.Microsecond), time.UTC)
		}},
		{"sequence too wide", func(id *ProductID) { id.Sequence = 1000 }},
		{"negative sequence", func(id *ProductID) { id.Sequence = -1 }},
		{"unknown state", func(id *ProductID) { id.State = State("q") }},
		{"unknown discriminator", func(id *ProductID) { id.SubProduct = "thm" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := base
			tc.mutate(&id)
			_, err := codec.Encode(id)
			var invalid *InvalidFieldError
			if !errors.As(err, &invalid) {
				t.Fatalf("Encode error = %v, want InvalidFieldError", err)
			}
		})
	}
}

func TestEncodeV1RejectsSequence(t *testing.T) {
	codec := mustCodec(t, SchemeV1)
	id := ProductID{Time: utc(2022, 1, 17, 1, 1, 1, 0), Sequence: 5, Instrument: "ncl", State: StateLossless}
	_, err := codec.Encode(id)
	var invalid *InvalidFieldError
	if !errors.As(err, &invalid) {
		t.Fatalf("Encode error = %v, want InvalidFieldError", err)
	}

	id.Sequence = 0
	token, err := codec.Encode(id)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if token != "220117-010101-ncl-a" {
		t.Fatalf("Encode = %q, want %q", token, "220117-010101-ncl-a")
	}
}

func TestDecode(t *testing.T) {
	codec := mustCodec(t, SchemeV2, SchemeV2, SchemeV1)

	cases := []struct {
		token string
		want  ProductID
	}{
		{
			token: "231125-140416-001-ncl-a",
			want:  ProductID{Time: utc(2023, 11, 25, 14, 4, 16, 0), Sequence: 1, Instrument: "ncl", State: StateLossless},
		},
		{
			token: "220117-010101001-000-aim-z",
			want:  ProductID{Time: utc(2022, 1, 17, 1, 1, 1, 1), Instrument: "aim", State: StateUncompressed},
		},
		{
			token: "220117-010101-ncl-a",
			want:  ProductID{Time: utc(2022, 1, 17, 1, 1, 1, 0), Instrument: "ncl", State: StateLossless},
		},
		{
			token: "231225-182000-003-pan-s-pan",
			want:  ProductID{Time: utc(2023, 12, 25, 18, 20, 0, 0), Sequence: 3, Instrument: "pan", State: StateSLoG, SubProduct: "pan"},
		},
		{
			token: "240330-121212-hap-d-pan",
			want:  ProductID{Time: utc(2024, 3, 30, 12, 12, 12, 0), Instrument: "hap", State: StateLossy64, SubProduct: "pan"},
		},
		{
			token: "000101-000000-000-ncl-a",
			want:  ProductID{Time: utc(2000, 1, 1, 0, 0, 0, 0), Instrument: "ncl", State: StateLossless},
		},
		{
			token: "050601-120000-001-ncl-a",
			want:  ProductID{Time: utc(2005, 6, 1, 12, 0, 0, 0), Sequence: 1, Instrument: "ncl", State: StateLossless},
		},
		{
			token: "991231-235959-999-acr-z",
			want:  ProductID{Time: utc(2099, 12, 31, 23, 59, 59, 0), Sequence: 999, Instrument: "acr", State: StateUncompressed},
		},
	}

	for _, tc := range cases {
		t.Run(tc.token, func(t *testing.T) {
			got, err := codec.Decode(tc.token)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("Decode = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	codec := mustCodec(t, SchemeV2, SchemeV2, SchemeV1)

	tokens := []string{
		"",
		"foobar",
		"220117-10101-001-ncl-a",     // five-digit clock
		"220117-010101-01-ncl-a",     // two-digit sequence
		"220117-010101-001-ncl-q",    // unknown state code
		"220117-010101000-001-ncl-a", // non-canonical 000 millisecond block
		"220230-010101-001-ncl-a",    // impossible calendar date
		"220117-010101-001-NCL-A",    // canonical form is lowercase
		"220117-010101-001-ncl-a-x",  // discriminator outside the closed set
		"220117-010101+0100-001-ncl-a",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			_, err := codec.Decode(token)
			var bad *MalformedIdentifierError
			if !errors.As(err, &bad) {
				t.Fatalf("Decode(%q) error = %v, want MalformedIdentifierError", token, err)
			}
			if bad.Token != token {
				t.Fatalf("error names token %q, want %q", bad.Token, token)
			}
		})
	}
}

func TestDecodeUnknownInstrument(t *testing.T) {
	codec := mustCodec(t, SchemeV2)
	_, err := codec.Decode("220117-010101-001-xyz-a")
	var unknown *UnknownInstrumentError
	if !errors.As(err, &unknown) {
		t.Fatalf("Decode error = %v, want UnknownInstrumentError", err)
	}
	if unknown.Name != "xyz" {
		t.Fatalf("error names %q, want %q", unknown.Name, "xyz")
	}
}

func TestDecodeLegacyOnlyWhenConfigured(t *testing.T) {
	codec := mustCodec(t, SchemeV2)
	if _, err := codec.Decode("220117-010101-ncl-a"); err == nil {
		t.Fatal("expected v1 token to be rejected by a v2-only codec")
	}

	legacy := mustCodec(t, SchemeV2, SchemeV2, SchemeV1)
	if _, err := legacy.Decode("220117-010101-ncl-a"); err != nil {
		t.Fatalf("Decode legacy token: %v", err)
	}
}

func TestRoundTripFieldsToToken(t *testing.T) {
	codec := mustCodec(t, SchemeV2, SchemeV2, SchemeV1)

	ids := []ProductID{
		{Time: utc(2023, 11, 25, 14, 4, 16, 0), Sequence: 1, Instrument: "ncl", State: StateLossless},
		{Time: utc(2022, 1, 17, 1, 1, 1, 999), Sequence: 999, Instrument: "aim", State: StateUncompressed},
		{Time: utc(2024, 3, 30, 12, 12, 12, 5), Sequence: 0, Instrument: "has", State: StateLossy16},
		{Time: utc(2031, 6, 1, 23, 59, 59, 0), Sequence: 123, Instrument: "pan", State: StateSLoG, SubProduct: "pan"},
		{Time: utc(2000, 1, 1, 0, 0, 0, 0), Sequence: 0, Instrument: "hfp", State: StateLossless},
		{Time: utc(2005, 6, 1, 12, 0, 0, 0), Sequence: 1, Instrument: "ncl", State: StateLossless},
		{Time: utc(2099, 12, 31, 23, 59, 59, 0), Sequence: 999, Instrument: "acr", State: StateUncompressed},
	}

	for _, id := range ids {
		token, err := codec.Encode(id)
		if err != nil {
			t.Fatalf("Encode(%+v): %v", id, err)
		}
		back, err := codec.Decode(token)
		if err != nil {
			t.Fatalf("Decode(%q): %v", token, err)
		}
		if !back.Equal(id) {
			t.Fatalf("round trip %+v -> %q -> %+v", id, token, back)
		}
	}
}

func TestRoundTripTokenToFields(t *testing.T) {
	v2 := mustCodec(t, SchemeV2)
	v1 := mustCodec(t, SchemeV1)

	cases := []struct {
		codec  *Codec
		tokens []string
	}{
		{v2, []string{
			"231125-140416-001-ncl-a",
			"220117-010101001-000-aim-z",
			"240330-121212999-042-hfs-c",
			"231225-182000-003-pan-s-pan",
			"000101-000000-000-ncl-a",
			"991231-235959-999-acr-z",
		}},
		{v1, []string{
			"220117-010101-ncl-a",
			"240330-121212-hap-d-pan",
			"050601-120000-hfp-b",
		}},
	}

	for _, tc := range cases {
		for _, token := range tc.tokens {
			id, err := tc.codec.Decode(token)
			if err != nil {
				t.Fatalf("Decode(%q): %v", token, err)
			}
			back, err := tc.codec.Encode(id)
			if err != nil {
				t.Fatalf("Encode(%+v): %v", id, err)
			}
			if back != token {
				t.Fatalf("round trip %q -> %+v -> %q", token, id, back)
			}
		}
	}
}

func TestBest(t *testing.T) {
	at := utc(2023, 11, 25, 14, 4, 16, 0)
	uncompressed := ProductID{Time: at, Instrument: "ncl", State: StateUncompressed}
	lossless := ProductID{Time: at, Instrument: "ncl", State: StateLossless}
	lossy5 := ProductID{Time: at, Instrument: "ncl", State: StateLossy5}
	lossy16 := ProductID{Time: at, Instrument: "ncl", State: StateLossy16}

	got, err := Best([]ProductID{lossy16, uncompressed, lossless})
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if !got.Equal(uncompressed) {
		t.Fatalf("Best = %+v, want uncompressed", got)
	}

	got, err = Best([]ProductID{lossy16, lossy5})
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if !got.Equal(lossy5) {
		t.Fatalf("Best = %+v, want the 5:1 identifier", got)
	}
}

func TestBestAmbiguous(t *testing.T) {
	a := ProductID{Time: utc(2023, 11, 25, 14, 4, 16, 0), Instrument: "ncl", State: StateLossy5}
	b := ProductID{Time: utc(2023, 11, 25, 14, 4, 17, 0), Instrument: "ncl", State: StateLossy5}

	_, err := Best([]ProductID{a, b})
	var ambiguous *AmbiguousBestError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Best error = %v, want AmbiguousBestError", err)
	}

	// The same identifier listed twice is not a state tie.
	got, err := Best([]ProductID{a, a})
	if err != nil {
		t.Fatalf("Best with duplicate identifier: %v", err)
	}
	if !got.Equal(a) {
		t.Fatalf("Best = %+v, want %+v", got, a)
	}
}

func TestBestAmbiguityIsOrderIndependent(t *testing.T) {
	at := utc(2023, 11, 25, 14, 4, 16, 0)
	tiedA := ProductID{Time: at, Instrument: "ncl", State: StateLossy5}
	tiedB := ProductID{Time: at.Add(time.Second), Instrument: "ncl", State: StateLossy5}
	winner := ProductID{Time: at, Instrument: "ncl", State: StateUncompressed}

	orders := [][]ProductID{
		{tiedA, tiedB, winner},
		{tiedA, winner, tiedB},
		{winner, tiedA, tiedB},
	}
	for _, ids := range orders {
		_, err := Best(ids)
		var ambiguous *AmbiguousBestError
		if !errors.As(err, &ambiguous) {
			t.Fatalf("Best(%v) error = %v, want AmbiguousBestError", ids, err)
		}
	}
}

func TestBestEmpty(t *testing.T) {
	if _, err := Best(nil); err == nil {
		t.Fatal("expected an error for an empty identifier set")
	}
}
