package gostblind

import (
	"crypto/sha256"
	"io"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"go.cypherpunks.ru/gogost/v5/gost34112012256"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// HashAlgorithm selects the document digest function. Streebog256 is the
// default: the signature equations take the digest as an integer H and the
// GOST hash is the companion function of this signature family.
type HashAlgorithm int

const (
	Streebog256 HashAlgorithm = iota
	SHA256
	Blake2b256
	Shake256
)

func (a HashAlgorithm) String() string {
	switch a {
	case Streebog256:
		return "streebog256"
	case SHA256:
		return "sha256"
	case Blake2b256:
		return "blake2b256"
	case Shake256:
		return "shake256"
	default:
		return "unknown"
	}
}

// ParseHashAlgorithm maps a configuration name to an algorithm.
func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "streebog256", "streebog", "gost":
		return Streebog256, nil
	case "sha256", "sha-256":
		return SHA256, nil
	case "blake2b256", "blake2b":
		return Blake2b256, nil
	case "shake256", "shake":
		return Shake256, nil
	default:
		return 0, newInvalidParameter("ParseHashAlgorithm", "unknown hash algorithm %q", name)
	}
}

// DigestDocument hashes data and returns the digest as a non-negative
// integer, big-endian. A digest divisible by the subgroup order is not
// invertible and makes signing fail; verification rejects such digests
// too. That case is astronomically unlikely for real parameters.
func DigestDocument(alg HashAlgorithm, data []byte) (*big.Int, error) {
	switch alg {
	case Streebog256:
		h := gost34112012256.New()
		h.Write(data)
		return new(big.Int).SetBytes(h.Sum(nil)), nil
	case SHA256:
		sum := sha256.Sum256(data)
		return new(big.Int).SetBytes(sum[:]), nil
	case Blake2b256:
		sum := blake2b.Sum256(data)
		return new(big.Int).SetBytes(sum[:]), nil
	case Shake256:
		var sum [32]byte
		sha3.ShakeSum256(sum[:], data)
		return new(big.Int).SetBytes(sum[:]), nil
	default:
		return nil, newInvalidParameter("DigestDocument", "unknown hash algorithm %d", alg)
	}
}

// DigestReader streams r through the selected hash. It reports read
// failures unchanged so callers can distinguish them from protocol errors.
func DigestReader(alg HashAlgorithm, r io.Reader) (*big.Int, error) {
	var h io.Writer
	sum := func() []byte { return nil }
	switch alg {
	case Streebog256:
		d := gost34112012256.New()
		h, sum = d, func() []byte { return d.Sum(nil) }
	case SHA256:
		d := sha256.New()
		h, sum = d, func() []byte { return d.Sum(nil) }
	case Blake2b256:
		d, err := blake2b.New256(nil)
		if err != nil {
			return nil, errors.Wrap(err, "init blake2b")
		}
		h, sum = d, func() []byte { return d.Sum(nil) }
	case Shake256:
		d := sha3.NewShake256()
		h, sum = d, func() []byte {
			out := make([]byte, 32)
			d.Read(out)
			return out
		}
	default:
		return nil, newInvalidParameter("DigestReader", "unknown hash algorithm %d", alg)
	}
	if _, err := io.Copy(h, r); err != nil {
		return nil, errors.Wrap(err, "read document")
	}
	return new(big.Int).SetBytes(sum()), nil
}
