package pid

import "fmt"

// InvalidFieldError reports a field value that cannot be represented by the
// encoding scheme in use.
type InvalidFieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func invalidField(field, value, reason string) error {
	return &InvalidFieldError{Field: field, Value: value, Reason: reason}
}

// MalformedIdentifierError reports a token that matches no configured scheme.
type MalformedIdentifierError struct {
	Token  string
	Reason string
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("malformed product identifier %q: %s", e.Token, e.Reason)
}

func malformed(token, reason string) error {
	return &MalformedIdentifierError{Token: token, Reason: reason}
}

// UnknownInstrumentError reports an instrument segment or name that resolves
// to no known alias.
type UnknownInstrumentError struct {
	Name string
}

func (e *UnknownInstrumentError) Error() string {
	return fmt.Sprintf("unknown instrument %q", e.Name)
}

// AmbiguousBestError reports two distinct identifiers tied on processing
// state. The scheme guarantees at most one representation per state for a
// given observation, so a tie means the caller mixed observations.
type AmbiguousBestError struct {
	A ProductID
	B ProductID
}

func (e *AmbiguousBestError) Error() string {
	return fmt.Sprintf(
		"ambiguous best representation: %s and %s share processing state %s",
		e.A.describe(), e.B.describe(), e.A.State,
	)
}
