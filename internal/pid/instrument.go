package pid

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// AliasTableVersion identifies the instrument alias table revision. Decoders
// embed it in diagnostics so a token rejected under an old table can be
// distinguished from true corruption.
const AliasTableVersion = 1

// instruments maps each canonical three-letter instrument code to its
// display name. "pan" is not a physical instrument but is a valid code for
// combined panorama products.
var instruments = map[string]string{
	"ncl": "NavCam Left",
	"ncr": "NavCam Right",
	"hfp": "HazCam Forward Port",
	"hfs": "HazCam Forward Starboard",
	"hap": "HazCam Aft Port",
	"has": "HazCam Aft Starboard",
	"acl": "AftCam Left",
	"acr": "AftCam Right",
	"aim": "Ames Imaging Module",
	"pan": "Panorama",
}

// instrumentAliases folds every historical name still present in telemetry
// and planning documents onto its canonical code. The mapping is many to
// one; encoding always emits the canonical code.
var instrumentAliases = map[string]string{
	"navcam left":              "ncl",
	"navcam right":             "ncr",
	"aftcam left":              "acl",
	"aftcam right":             "acr",
	"hazcam forward port":      "hfp",
	"hazcam forward starboard": "hfs",
	"hazcam aft port":          "hap",
	"hazcam aft starboard":     "has",
	"hazcam front left":        "hfp",
	"hazcam front right":       "hfs",
	"hazcam back left":         "hap",
	"hazcam back right":        "has",
	"hazcam_1":                 "hfp",
	"hazcam_2":                 "hap",
	"hazcam_3":                 "hfs",
	"hazcam_4":                 "has",
	"ames imaging module":      "aim",
	"panorama":                 "pan",
}

// instrumentNumbers maps flight-software channel numbers to codes.
var instrumentNumbers = map[int]string{
	0: "ncl",
	1: "ncr",
	2: "acl",
	3: "acr",
	4: "hfp",
	5: "hfs",
	6: "hap",
	7: "has",
}

var aliasFolder = cases.Fold()

// ResolveInstrument maps a code, historical alias, or display name to the
// canonical instrument code. Matching is caseless. An unresolvable name is
// an UnknownInstrumentError, never a silent default.
func ResolveInstrument(name string) (string, error) {
	folded := aliasFolder.String(strings.TrimSpace(name))
	if folded == "" {
		return "", &UnknownInstrumentError{Name: name}
	}
	if _, ok := instruments[folded]; ok {
		return folded, nil
	}
	if code, ok := instrumentAliases[folded]; ok {
		return code, nil
	}
	return "", &UnknownInstrumentError{Name: name}
}

// InstrumentFromNumber maps a flight-software channel number to its code.
func InstrumentFromNumber(n int) (string, error) {
	code, ok := instrumentNumbers[n]
	if !ok {
		return "", &UnknownInstrumentError{Name: fmt.Sprintf("channel %d", n)}
	}
	return code, nil
}

// InstrumentName returns the display name for a canonical code or alias.
func InstrumentName(name string) (string, error) {
	code, err := ResolveInstrument(name)
	if err != nil {
		return "", err
	}
	return instruments[code], nil
}

// Instruments returns the canonical codes in no particular order.
func Instruments() []string {
	codes := make([]string, 0, len(instruments))
	for code := range instruments {
		codes = append(codes, code)
	}
	return codes
}
