package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for install run identifiers.
	FieldRunID = "run_id"
	// FieldBundle is the standardized structured logging key for bundle logical identifiers.
	FieldBundle = "bundle"
)
