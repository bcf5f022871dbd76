// Package label reads archive description labels.
//
// A label is an XML document with a self-identifier and zero or more typed
// references: bundle member entries naming other labels by logical
// identifier, and file areas naming concrete files by relative path. The
// loader extracts exactly that shape and nothing more; schema validation
// and reference target checks belong to other layers.
package label
