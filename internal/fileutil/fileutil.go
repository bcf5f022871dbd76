// Package fileutil provides checksummed file copy primitives for the
// bundle installer.
package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
)

// Algorithm names a supported checksum algorithm.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// ParseAlgorithm maps a configuration value to an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(value))) {
	case SHA256:
		return SHA256, nil
	case BLAKE3:
		return BLAKE3, nil
	default:
		return "", fmt.Errorf("unknown checksum algorithm %q (known: sha256, blake3)", value)
	}
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case BLAKE3:
		return blake3.New()
	default:
		return sha256.New()
	}
}

// MismatchError reports a copy whose destination digest does not match the
// source digest read during the same pass.
type MismatchError struct {
	Algorithm Algorithm
	Expected  string
	Actual    string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s digest mismatch: source %s, destination %s", e.Algorithm, e.Expected, e.Actual)
}

// CopyResult describes a completed verified copy.
type CopyResult struct {
	Digest string
	Size   int64
}

// Checksum computes the hex digest of the file at path.
func Checksum(path string, algo Algorithm) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := algo.newHash()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CopyVerified streams src to dst, hashing the bytes as they are read,
// then re-reads the written dst and compares digests. Corruption on the
// write path is therefore caught, not just a short read. A size or digest
// mismatch removes dst and returns an error; digest mismatches are
// MismatchError. An existing dst is truncated and overwritten.
func CopyVerified(src, dst string, algo Algorithm) (CopyResult, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return CopyResult{}, fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return CopyResult{}, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return CopyResult{}, err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := algo.newHash()
	written, err := io.Copy(out, io.TeeReader(in, srcHasher))
	if err != nil {
		return CopyResult{}, err
	}
	if err := out.Close(); err != nil {
		return CopyResult{}, err
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return CopyResult{}, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}

	srcDigest := hex.EncodeToString(srcHasher.Sum(nil))
	if err := verifyDestination(dst, algo, srcDigest); err != nil {
		return CopyResult{}, err
	}
	return CopyResult{Digest: srcDigest, Size: written}, nil
}

// verifyDestination re-reads dst and checks its digest against the digest
// of the bytes that were copied. A mismatching dst is removed.
func verifyDestination(dst string, algo Algorithm, srcDigest string) error {
	dstDigest, err := Checksum(dst, algo)
	if err != nil {
		return fmt.Errorf("verify destination: %w", err)
	}
	if dstDigest != srcDigest {
		_ = os.Remove(dst)
		return &MismatchError{Algorithm: algo, Expected: srcDigest, Actual: dstDigest}
	}
	return nil
}
