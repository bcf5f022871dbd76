package bundle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDestinationLocked reports a destination root already locked by a
// concurrent install.
var ErrDestinationLocked = errors.New("destination locked by another install")

// CyclicReferenceError reports labels that transitively reference
// themselves. Cycle holds the label paths along the loop, ending with the
// repeated label.
type CyclicReferenceError struct {
	Cycle []string
}

func (e *CyclicReferenceError) Error() string {
	return "cyclic label reference: " + strings.Join(e.Cycle, " -> ")
}

// DanglingReferenceError reports a reference whose target does not exist:
// a missing file, or a logical identifier no label in the bundle carries.
type DanglingReferenceError struct {
	Referencer string
	Target     string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference: %s references missing %s", e.Referencer, e.Target)
}

// PathEscapeError reports a file reference whose relative path climbs out
// of the bundle root. Installing it would write outside the destination.
type PathEscapeError struct {
	Referencer string
	Target     string
}

func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("path escape: %s references %s outside the bundle root", e.Referencer, e.Target)
}

// CopyIntegrityError reports a copy whose destination bytes do not match
// the source. Remaining copies are aborted when one is raised.
type CopyIntegrityError struct {
	Source      string
	Destination string
	Algorithm   string
	Expected    string
	Actual      string
}

func (e *CopyIntegrityError) Error() string {
	return fmt.Sprintf(
		"copy integrity failure for %s -> %s: %s digest %s became %s",
		e.Source, e.Destination, e.Algorithm, e.Expected, e.Actual,
	)
}
