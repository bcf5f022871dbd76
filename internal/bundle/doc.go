// Package bundle resolves archive bundle reference graphs and installs
// self-contained copies of them.
//
// The resolver walks labels from a bundle root, building an explicit
// node/edge graph so cycle detection and file deduplication are properties
// of the representation rather than side effects of recursion. Resolution
// is all-or-nothing: one dangling reference, cycle, or escaping path fails
// the whole bundle.
//
// The installer copies every resolved file into a destination tree,
// preserving layout relative to the bundle root and verifying a checksum
// for each copy. Installs are idempotent; a rerun overwrites and
// re-verifies rather than erroring on existing targets.
package bundle
