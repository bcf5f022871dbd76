package pid

import "testing"

func TestResolveInstrumentAliases(t *testing.T) {
	// Every historical alias must resolve; silence here would let a renamed
	// instrument decode to the wrong camera.
	cases := map[string]string{
		"ncl":                      "ncl",
		"NCL":                      "ncl",
		"NavCam Left":              "ncl",
		"navcam right":             "ncr",
		"AftCam Left":              "acl",
		"aftcam right":             "acr",
		"hazcam forward port":      "hfp",
		"hazcam forward starboard": "hfs",
		"hazcam aft port":          "hap",
		"hazcam aft starboard":     "has",
		"hazcam front left":        "hfp",
		"hazcam front right":       "hfs",
		"hazcam back left":         "hap",
		"hazcam back right":        "has",
		"HazCam_1":                 "hfp",
		"hazcam_2":                 "hap",
		"hazcam_3":                 "hfs",
		"hazcam_4":                 "has",
		"Ames Imaging Module":      "aim",
		"Panorama":                 "pan",
		" ncl ":                    "ncl",
	}

	for alias, want := range cases {
		got, err := ResolveInstrument(alias)
		if err != nil {
			t.Errorf("ResolveInstrument(%q): %v", alias, err)
			continue
		}
		if got != want {
			t.Errorf("ResolveInstrument(%q) = %q, want %q", alias, got, want)
		}
	}
}

func TestResolveInstrumentUnknown(t *testing.T) {
	for _, name := range []string{"", "nss", "drill", "hazcam_5"} {
		if _, err := ResolveInstrument(name); err == nil {
			t.Errorf("ResolveInstrument(%q) succeeded, want UnknownInstrumentError", name)
		}
	}
}

func TestInstrumentFromNumber(t *testing.T) {
	cases := map[int]string{
		0: "ncl", 1: "ncr", 2: "acl", 3: "acr",
		4: "hfp", 5: "hfs", 6: "hap", 7: "has",
	}
	for n, want := range cases {
		got, err := InstrumentFromNumber(n)
		if err != nil {
			t.Fatalf("InstrumentFromNumber(%d): %v", n, err)
		}
		if got != want {
			t.Errorf("InstrumentFromNumber(%d) = %q, want %q", n, got, want)
		}
	}
	if _, err := InstrumentFromNumber(8); err == nil {
		t.Error("InstrumentFromNumber(8) succeeded, want error")
	}
}

func TestInstrumentName(t *testing.T) {
	got, err := InstrumentName("hazcam_4")
	if err != nil {
		t.Fatalf("InstrumentName: %v", err)
	}
	if got != "HazCam Aft Starboard" {
		t.Fatalf("InstrumentName = %q", got)
	}
}
