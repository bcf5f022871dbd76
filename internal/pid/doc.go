// Package pid encodes and decodes rover product identifiers.
//
// A product identifier is a compact dash-separated token that carries the
// full provenance of one science product: acquisition time (UTC), capture
// sequence number, instrument, processing state, and an optional sub-product
// discriminator. Tokens are produced by a Codec configured with an explicit
// scheme version, so legacy tokens keep decoding while new products are
// always written in the current scheme.
//
// The package also defines the total quality ordering over processing
// states (uncompressed beats lossless beats lossy, stricter lossy ratios
// beat looser ones) used by Best to select the highest-fidelity
// representation of an observation.
package pid
